package shader

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// spirvMagic is the first word of every SPIR-V module.
const spirvMagic = 0x07230203

// ArtifactInfo describes a compiled artifact on disk.
type ArtifactInfo struct {
	Name  string
	Size  int64
	Valid bool
	// Version is the SPIR-V version as "major.minor", empty if not valid.
	Version string
	// Words is the module length in 32-bit words.
	Words int64
}

// InspectArtifact reads the header of a SPIR-V module. Files that are too
// short or lack the magic number are reported with Valid unset rather than
// as an error.
func InspectArtifact(path string) (*ArtifactInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open artifact: %w", err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat artifact: %w", err)
	}

	info := &ArtifactInfo{
		Name:  filepath.Base(path),
		Size:  stat.Size(),
		Words: stat.Size() / 4,
	}

	var header [2]uint32
	if err := binary.Read(f, binary.LittleEndian, &header); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return info, nil
		}
		return nil, fmt.Errorf("failed to read artifact header: %w", err)
	}
	if header[0] != spirvMagic {
		return info, nil
	}

	info.Valid = true
	info.Version = fmt.Sprintf("%d.%d", (header[1]>>16)&0xff, (header[1]>>8)&0xff)
	return info, nil
}
