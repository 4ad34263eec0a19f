package rm

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"unsafe"
)

// lineHeaderV3 precedes the points of a line in version 3 pages.
type lineHeaderV3 struct {
	BrushType  BrushType
	BrushColor BrushColor
	Padding    uint32
	BrushSize  BrushSize
}

// lineHeaderV5 adds one float of unknown meaning.
type lineHeaderV5 struct {
	BrushType  BrushType
	BrushColor BrushColor
	Padding    uint32
	BrushSize  BrushSize
	Unknown    float32
}

const pointSize = int(unsafe.Sizeof(Point{}))

// UnmarshalBinary implements encoding.BinaryUnmarshaler for version 3 and 5
// pages.
func (rm *Rm) UnmarshalBinary(data []byte) error {
	if len(data) < HeaderLen {
		return fmt.Errorf("rm: file too short for header")
	}
	switch string(data[:HeaderLen]) {
	case HeaderV3:
		rm.Version = V3
	case HeaderV5:
		rm.Version = V5
	default:
		return fmt.Errorf("rm: unsupported header %q", bytes.TrimRight(data[:HeaderLen], " "))
	}

	r := bytes.NewReader(data[HeaderLen:])
	nbLayers, err := readCount(r, 4)
	if err != nil {
		return fmt.Errorf("rm: layer count: %w", err)
	}
	rm.Layers = make([]Layer, nbLayers)
	for i := range rm.Layers {
		nbLines, err := readCount(r, 4)
		if err != nil {
			return fmt.Errorf("rm: layer %d line count: %w", i, err)
		}
		rm.Layers[i].Lines = make([]Line, nbLines)
		for j := range rm.Layers[i].Lines {
			line, err := readLine(r, rm.Version)
			if err != nil {
				return fmt.Errorf("rm: layer %d line %d: %w", i, j, err)
			}
			rm.Layers[i].Lines[j] = line
		}
	}
	return nil
}

func readLine(r *bytes.Reader, version Version) (Line, error) {
	var line Line
	if version == V5 {
		var h lineHeaderV5
		if err := binary.Read(r, binary.LittleEndian, &h); err != nil {
			return line, err
		}
		line.BrushType, line.BrushColor, line.Padding, line.BrushSize = h.BrushType, h.BrushColor, h.Padding, h.BrushSize
		line.Unknown = h.Unknown
	} else {
		var h lineHeaderV3
		if err := binary.Read(r, binary.LittleEndian, &h); err != nil {
			return line, err
		}
		line.BrushType, line.BrushColor, line.Padding, line.BrushSize = h.BrushType, h.BrushColor, h.Padding, h.BrushSize
	}

	nbPoints, err := readCount(r, pointSize)
	if err != nil {
		return line, err
	}
	if nbPoints == 0 {
		return line, nil
	}
	line.Points = make([]Point, nbPoints)
	if err := binary.Read(r, binary.LittleEndian, line.Points); err != nil {
		return line, err
	}
	return line, nil
}

// readCount reads a uint32 count of elements of elemSize bytes each and
// checks that they fit into what is left of r.
func readCount(r *bytes.Reader, elemSize int) (int, error) {
	var n uint32
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return 0, err
	}
	if int64(n)*int64(elemSize) > int64(r.Len()) {
		return 0, io.ErrUnexpectedEOF
	}
	return int(n), nil
}
