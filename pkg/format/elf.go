// pkg/format/elf.go

package format

import (
	"debug/elf"
	"io"

	"github.com/pkg/errors"

	"AveBin/pkg/image"
)

// ReadELF loads the allocated sections of an ELF file into img. A section
// belonging to a load segment lands at the segment's physical base plus
// the section's offset within the segment's virtual range, so images built
// for execute-in-place flash come out at their flash addresses. The entry
// point becomes the execution-start address.
func ReadELF(img *image.Image, r io.ReaderAt, overwrite bool) error {
	f, err := elf.NewFile(r)
	if err != nil {
		return errors.Wrap(err, "elf")
	}
	defer f.Close()

	for _, section := range f.Sections {
		if section.Flags&elf.SHF_ALLOC == 0 || section.Size == 0 || section.Type == elf.SHT_NOBITS {
			continue
		}
		segment := loadSegmentOf(f, section)
		if segment == nil {
			logger.Debugf("elf: section %s is not part of any load segment, skipped", section.Name)
			continue
		}
		data, err := section.Data()
		if err != nil {
			return errors.Wrapf(err, "elf: section %s", section.Name)
		}
		physical := segment.Paddr + (section.Addr - segment.Vaddr)
		if err := img.Store().Add(image.NewSegment(physical, data), overwrite); err != nil {
			return errors.Wrapf(err, "elf: section %s", section.Name)
		}
	}

	img.SetExecutionStartAddress(f.Entry / img.WordSizeBytes())
	return nil
}

// loadSegmentOf returns the load segment containing the section's virtual
// range, or nil.
func loadSegmentOf(f *elf.File, section *elf.Section) *elf.Prog {
	for _, prog := range f.Progs {
		if prog.Type != elf.PT_LOAD {
			continue
		}
		if section.Addr >= prog.Vaddr && section.Addr+section.Size <= prog.Vaddr+prog.Memsz {
			return prog
		}
	}
	return nil
}
