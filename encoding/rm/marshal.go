package rm

import (
	"bytes"
	"encoding/binary"
)

// MarshalBinary implements encoding.BinaryMarshaler. Pages are always
// written as version 5.
func (rm *Rm) MarshalBinary() ([]byte, error) {
	var b bytes.Buffer
	b.WriteString(HeaderV5)

	w := func(v interface{}) {
		// bytes.Buffer writes do not fail
		_ = binary.Write(&b, binary.LittleEndian, v)
	}
	w(uint32(len(rm.Layers)))
	for _, layer := range rm.Layers {
		w(uint32(len(layer.Lines)))
		for _, line := range layer.Lines {
			w(lineHeaderV5{
				BrushType:  line.BrushType,
				BrushColor: line.BrushColor,
				Padding:    line.Padding,
				BrushSize:  line.BrushSize,
				Unknown:    line.Unknown,
			})
			w(uint32(len(line.Points)))
			if len(line.Points) > 0 {
				w(line.Points)
			}
		}
	}
	return b.Bytes(), nil
}
