// Package peimport reads the import directory of a PE image and reports
// the names of the DLLs it imports.
//
// It does not resolve, load, or follow forwarders; it only reports the
// raw names exactly as they appear in the PE import descriptors, in
// order, with duplicates passed through untouched.
package peimport

import (
	"bytes"
	"debug/pe"
	"encoding/binary"
	"fmt"
	"io"
)

// importDescriptorSize is sizeof(IMAGE_IMPORT_DESCRIPTOR).
const importDescriptorSize = 20

// maxNameLen bounds a single DLL name read from the file, guarding
// against a corrupt or adversarial PE with a missing null terminator.
const maxNameLen = 256

// Names returns the ordered list of DLL names imported by the PE image
// at path, duplicates preserved. It accepts both PE32 and PE32+ images.
func Names(path string) ([]string, error) {
	f, err := pe.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %q as a PE image: %w", path, err)
	}
	defer f.Close()

	dir, err := importDirectory(f)
	if err != nil {
		return nil, fmt.Errorf("failed to locate import directory in %q: %w", path, err)
	}
	if dir.VirtualAddress == 0 {
		// No import directory at all: a valid, if unusual, PE image.
		return nil, nil
	}

	r := &reader{file: f}
	offset, err := r.rvaToOffset(dir.VirtualAddress)
	if err != nil {
		return nil, fmt.Errorf("failed to map import directory in %q: %w", path, err)
	}

	var names []string
	for {
		desc, err := r.readDescriptor(offset)
		if err != nil {
			return nil, fmt.Errorf("failed to read import descriptor in %q: %w", path, err)
		}
		if desc.isNull() {
			break
		}

		name, err := r.readName(desc.Name)
		if err != nil {
			return nil, fmt.Errorf("failed to read imported DLL name in %q: %w", path, err)
		}
		names = append(names, name)

		offset += importDescriptorSize
	}

	return names, nil
}

// importDirectory returns the Import Table data directory entry (index
// 1, IMAGE_DIRECTORY_ENTRY_IMPORT) from whichever optional header
// variant (PE32 or PE32+) the image carries.
func importDirectory(f *pe.File) (pe.DataDirectory, error) {
	const imageDirectoryEntryImport = 1

	switch oh := f.OptionalHeader.(type) {
	case *pe.OptionalHeader32:
		if len(oh.DataDirectory) <= imageDirectoryEntryImport {
			return pe.DataDirectory{}, fmt.Errorf("optional header has no import directory entry")
		}
		return oh.DataDirectory[imageDirectoryEntryImport], nil
	case *pe.OptionalHeader64:
		if len(oh.DataDirectory) <= imageDirectoryEntryImport {
			return pe.DataDirectory{}, fmt.Errorf("optional header has no import directory entry")
		}
		return oh.DataDirectory[imageDirectoryEntryImport], nil
	default:
		return pe.DataDirectory{}, fmt.Errorf("unrecognized optional header type")
	}
}

// importDescriptor mirrors IMAGE_IMPORT_DESCRIPTOR; only Name is used.
type importDescriptor struct {
	originalFirstThunk uint32
	timeDateStamp      uint32
	forwarderChain     uint32
	Name               uint32
	firstThunk         uint32
}

func (d importDescriptor) isNull() bool {
	return d.originalFirstThunk == 0 && d.Name == 0 && d.firstThunk == 0
}

// reader walks a PE file's section table to translate RVAs to file
// offsets, and reads raw bytes at those offsets.
type reader struct {
	file *pe.File
}

func (r *reader) rvaToOffset(rva uint32) (uint32, error) {
	for _, section := range r.file.Sections {
		if rva >= section.VirtualAddress && rva < section.VirtualAddress+section.VirtualSize {
			return rva - section.VirtualAddress + section.Offset, nil
		}
	}
	return 0, fmt.Errorf("RVA 0x%x is not contained in any section", rva)
}

func (r *reader) readDescriptor(offset uint32) (importDescriptor, error) {
	data, err := r.readAt(int64(offset), importDescriptorSize)
	if err != nil {
		return importDescriptor{}, err
	}

	return importDescriptor{
		originalFirstThunk: binary.LittleEndian.Uint32(data[0:4]),
		timeDateStamp:      binary.LittleEndian.Uint32(data[4:8]),
		forwarderChain:     binary.LittleEndian.Uint32(data[8:12]),
		Name:               binary.LittleEndian.Uint32(data[12:16]),
		firstThunk:         binary.LittleEndian.Uint32(data[16:20]),
	}, nil
}

func (r *reader) readName(nameRVA uint32) (string, error) {
	offset, err := r.rvaToOffset(nameRVA)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	b := make([]byte, 1)
	for {
		n, err := r.readAt(int64(offset), 1)
		if err != nil {
			return "", err
		}
		b[0] = n[0]
		if b[0] == 0 {
			break
		}
		buf.WriteByte(b[0])
		offset++
		if buf.Len() > maxNameLen {
			return "", fmt.Errorf("DLL name exceeds %d bytes without a null terminator", maxNameLen)
		}
	}

	return buf.String(), nil
}

// readAt reads n bytes at an absolute file offset by locating the
// section that contains it and reading from its backing reader.
func (r *reader) readAt(offset int64, n int) ([]byte, error) {
	for _, section := range r.file.Sections {
		start := int64(section.Offset)
		end := start + int64(section.Size)
		if offset < start || offset >= end {
			continue
		}
		sr := section.Open()
		if _, err := sr.Seek(offset-start, io.SeekStart); err != nil {
			return nil, err
		}
		buf := make([]byte, n)
		if _, err := io.ReadFull(sr, buf); err != nil {
			return nil, err
		}
		return buf, nil
	}
	return nil, fmt.Errorf("file offset %d is not contained in any section", offset)
}
