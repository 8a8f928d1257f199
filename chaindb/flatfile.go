package chaindb

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// maxFlatFileSize is the rotation boundary for a block/undo flat file.
const maxFlatFileSize = 512 * 1024 * 1024

// flatFiles owns the append-only block/undo record stream: files named
// <dir>/<n>.dat, each record a little-endian length prefix followed by the
// raw payload. It tracks the single currently-open file for appends;
// reads reopen whichever file a caller names.
type flatFiles struct {
	dir        string
	activeFile int32
	activePos  int32
	fh         *os.File
}

func (f *flatFiles) path(n int32) string {
	return filepath.Join(f.dir, fmt.Sprintf("%d.dat", n))
}

// openFlatFiles opens (creating if absent) the file named by `file` for
// append, asserting its on-disk size matches `pos` exactly — a mismatch
// means the last write never completed and the store is corrupt.
func openFlatFiles(dir string, file, pos int32) (*flatFiles, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errStorage("flatfile: mkdir", err)
	}
	f := &flatFiles{dir: dir, activeFile: file, activePos: pos}
	fh, err := os.OpenFile(f.path(file), os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, errStorage("flatfile: open", err)
	}
	info, err := fh.Stat()
	if err != nil {
		fh.Close()
		return nil, errStorage("flatfile: stat", err)
	}
	if info.Size() != int64(pos) {
		fh.Close()
		return nil, errCorrupt("flatfile: %s size %d does not match recorded position %d", f.path(file), info.Size(), pos)
	}
	if _, err := fh.Seek(0, io.SeekEnd); err != nil {
		fh.Close()
		return nil, errStorage("flatfile: seek", err)
	}
	f.fh = fh
	return f, nil
}

// Append writes le32(len(payload)) || payload to the active file, rotating
// to a fresh file first if the record would cross maxFlatFileSize. It
// returns the (file, pos) of the record's length prefix, the value an
// Entry's block/undo file+pos fields record.
func (f *flatFiles) Append(payload []byte) (int32, int32, error) {
	recLen := int32(4 + len(payload))
	if f.activePos > 0 && f.activePos+recLen > maxFlatFileSize {
		if err := f.rotate(); err != nil {
			return 0, 0, err
		}
	}
	file, pos := f.activeFile, f.activePos
	buf := make([]byte, 4, recLen)
	binary.LittleEndian.PutUint32(buf, uint32(len(payload)))
	buf = append(buf, payload...)
	if _, err := f.fh.Write(buf); err != nil {
		return 0, 0, errStorage("flatfile: write", err)
	}
	f.activePos += recLen
	return file, pos, nil
}

func (f *flatFiles) rotate() error {
	if err := f.fh.Sync(); err != nil {
		return errStorage("flatfile: sync before rotate", err)
	}
	if err := f.fh.Close(); err != nil {
		return errStorage("flatfile: close before rotate", err)
	}
	f.activeFile++
	f.activePos = 0
	fh, err := os.OpenFile(f.path(f.activeFile), os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return errStorage("flatfile: open next", err)
	}
	f.fh = fh
	return nil
}

// Sync fsyncs the active file.
func (f *flatFiles) Sync() error {
	if err := f.fh.Sync(); err != nil {
		return errStorage("flatfile: sync", err)
	}
	return nil
}

// Read returns the payload of the record at (file, pos), reopening that
// file read-only regardless of whether it is the active one.
func (f *flatFiles) Read(file, pos int32) ([]byte, error) {
	fh, err := os.Open(f.path(file))
	if err != nil {
		return nil, errStorage("flatfile: read open", err)
	}
	defer fh.Close()
	if _, err := fh.Seek(int64(pos), io.SeekStart); err != nil {
		return nil, errStorage("flatfile: seek", err)
	}
	var lenBuf [4]byte
	if _, err := io.ReadFull(fh, lenBuf[:]); err != nil {
		return nil, errStorage("flatfile: read length", err)
	}
	n := binary.LittleEndian.Uint32(lenBuf[:])
	payload := make([]byte, n)
	if _, err := io.ReadFull(fh, payload); err != nil {
		return nil, errStorage("flatfile: read payload", err)
	}
	return payload, nil
}

func (f *flatFiles) Close() error {
	if f.fh == nil {
		return nil
	}
	if err := f.fh.Close(); err != nil {
		return errStorage("flatfile: close", err)
	}
	return nil
}
