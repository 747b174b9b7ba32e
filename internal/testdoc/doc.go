package testdoc

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"unicode/utf16"
)

// Minimal version 3 compound file writer. Streams are padded to the
// 4096-byte mini stream cutoff so everything lives in regular sectors:
// sector 0 holds the FAT, sector 1 the directory.
const (
	sectorSize = 512
	endOfChain = 0xFFFFFFFE
	freeSect   = 0xFFFFFFFF
	fatSect    = 0xFFFFFFFD
	noStream   = 0xFFFFFFFF
	miniCutoff = 4096
	dirEntrySz = 128
	maxDirs    = sectorSize / dirEntrySz
)

// FIB offsets in the WordDocument stream.
const (
	fibFlags     = 0x000A
	fibFcMin     = 0x0018
	fibFcMac     = 0x001C
	fibFcClx     = 0x01A2
	fibLcClx     = 0x01A6
	fcCompressed = 0x40000000

	// TextStart is where piece text begins in the WordDocument stream.
	TextStart = 0x800
)

// Stream is one named stream of a compound file.
type Stream struct {
	Name string
	Data []byte
}

// CompoundFile returns an OLE2 compound file holding the streams. At most
// three streams fit.
func CompoundFile(streams ...Stream) ([]byte, error) {
	if len(streams)+1 > maxDirs {
		return nil, fmt.Errorf("at most %d streams supported", maxDirs-1)
	}

	type placed struct {
		Stream
		start   uint32
		sectors int
	}
	var layout []placed
	next := uint32(2)
	for _, s := range streams {
		data := s.Data
		if len(data) < miniCutoff {
			data = append(append([]byte(nil), data...), make([]byte, miniCutoff-len(data))...)
		}
		n := (len(data) + sectorSize - 1) / sectorSize
		layout = append(layout, placed{Stream{s.Name, data}, next, n})
		next += uint32(n)
	}
	if next > sectorSize/4 {
		return nil, fmt.Errorf("streams too large for a single FAT sector")
	}

	total := int(next)
	file := make([]byte, sectorSize*(total+1))
	sector := func(n int) []byte {
		return file[sectorSize*(n+1) : sectorSize*(n+2)]
	}

	// Header
	h := file[:sectorSize]
	copy(h, []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1})
	binary.LittleEndian.PutUint16(h[24:], 0x003E)
	binary.LittleEndian.PutUint16(h[26:], 0x0003)
	binary.LittleEndian.PutUint16(h[28:], 0xFFFE)
	binary.LittleEndian.PutUint16(h[30:], 9)
	binary.LittleEndian.PutUint16(h[32:], 6)
	binary.LittleEndian.PutUint32(h[44:], 1) // FAT sectors
	binary.LittleEndian.PutUint32(h[48:], 1) // first directory sector
	binary.LittleEndian.PutUint32(h[56:], miniCutoff)
	binary.LittleEndian.PutUint32(h[60:], endOfChain)
	binary.LittleEndian.PutUint32(h[68:], endOfChain)
	binary.LittleEndian.PutUint32(h[76:], 0)
	for i := 1; i < 109; i++ {
		binary.LittleEndian.PutUint32(h[76+i*4:], freeSect)
	}

	// FAT
	fat := sector(0)
	for i := 0; i < sectorSize/4; i++ {
		binary.LittleEndian.PutUint32(fat[i*4:], freeSect)
	}
	binary.LittleEndian.PutUint32(fat[0:], fatSect)
	binary.LittleEndian.PutUint32(fat[4:], endOfChain)
	for _, p := range layout {
		for i := 0; i < p.sectors; i++ {
			v := p.start + uint32(i) + 1
			if i == p.sectors-1 {
				v = endOfChain
			}
			binary.LittleEndian.PutUint32(fat[(int(p.start)+i)*4:], v)
		}
		for i := 0; i < p.sectors; i++ {
			copy(sector(int(p.start)+i), p.Data[i*sectorSize:min(len(p.Data), (i+1)*sectorSize)])
		}
	}

	// Directory: root, then each stream chained through right siblings.
	dir := sector(1)
	writeDirEntry(dir[0:dirEntrySz], "Root Entry", 5, noStream, 1, endOfChain, 0)
	if len(layout) == 0 {
		binary.LittleEndian.PutUint32(dir[76:], noStream)
	}
	for i, p := range layout {
		right := uint32(i + 2)
		if i == len(layout)-1 {
			right = noStream
		}
		off := (i + 1) * dirEntrySz
		writeDirEntry(dir[off:off+dirEntrySz], p.Name, 2, right, noStream, p.start, len(p.Data))
	}
	for i := len(layout) + 1; i < maxDirs; i++ {
		e := dir[i*dirEntrySz : (i+1)*dirEntrySz]
		binary.LittleEndian.PutUint32(e[68:], noStream)
		binary.LittleEndian.PutUint32(e[72:], noStream)
		binary.LittleEndian.PutUint32(e[76:], noStream)
	}

	return file, nil
}

func writeDirEntry(e []byte, name string, objType byte, right, child, start uint32, size int) {
	u := utf16.Encode([]rune(name))
	for i, c := range u {
		binary.LittleEndian.PutUint16(e[i*2:], c)
	}
	binary.LittleEndian.PutUint16(e[64:], uint16((len(u)+1)*2))
	e[66] = objType
	e[67] = 1 // black
	binary.LittleEndian.PutUint32(e[68:], noStream)
	binary.LittleEndian.PutUint32(e[72:], right)
	binary.LittleEndian.PutUint32(e[76:], child)
	binary.LittleEndian.PutUint32(e[116:], start)
	binary.LittleEndian.PutUint32(e[120:], uint32(size))
}

// Piece is one run of document text. ANSI pieces hold Windows-1252 bytes.
type Piece struct {
	Text    string
	Unicode bool
}

// WordStreams returns a WordDocument stream and a 1Table stream whose
// piece table covers the pieces in order.
func WordStreams(pieces ...Piece) (wordDoc, table []byte) {
	wordDoc = make([]byte, TextStart)
	binary.LittleEndian.PutUint16(wordDoc[0:], 0xA5EC)
	binary.LittleEndian.PutUint16(wordDoc[fibFlags:], 0x0200)

	var cps []uint32
	var fcs []uint32
	cp := uint32(0)
	for _, p := range pieces {
		cps = append(cps, cp)
		off := uint32(len(wordDoc))
		if p.Unicode {
			u := utf16.Encode([]rune(p.Text))
			for _, c := range u {
				wordDoc = binary.LittleEndian.AppendUint16(wordDoc, c)
			}
			fcs = append(fcs, off)
			cp += uint32(len(u))
		} else {
			wordDoc = append(wordDoc, p.Text...)
			fcs = append(fcs, off*2|fcCompressed)
			cp += uint32(len(p.Text))
		}
	}
	cps = append(cps, cp)
	binary.LittleEndian.PutUint32(wordDoc[fibFcMin:], TextStart)
	binary.LittleEndian.PutUint32(wordDoc[fibFcMac:], uint32(len(wordDoc)))

	var plc []byte
	for _, c := range cps {
		plc = binary.LittleEndian.AppendUint32(plc, c)
	}
	for _, fc := range fcs {
		plc = append(plc, 0, 0)
		plc = binary.LittleEndian.AppendUint32(plc, fc)
		plc = append(plc, 0, 0)
	}

	// A Prc entry ahead of the Pcdt.
	table = []byte{0x01, 0x02, 0x00, 0xAA, 0xBB, 0x02}
	table = binary.LittleEndian.AppendUint32(table, uint32(len(plc)))
	table = append(table, plc...)

	binary.LittleEndian.PutUint32(wordDoc[fibFcClx:], 0)
	binary.LittleEndian.PutUint32(wordDoc[fibLcClx:], uint32(len(table)))
	return wordDoc, table
}

// Doc returns a .doc file whose text is the given ANSI paragraphs, each
// terminated by a paragraph mark. A non-nil data stream is added as the
// Data stream.
func Doc(paragraphs []string, data []byte) ([]byte, error) {
	var pieces []Piece
	for _, p := range paragraphs {
		pieces = append(pieces, Piece{Text: p + "\r"})
	}
	wordDoc, table := WordStreams(pieces...)

	streams := []Stream{{"WordDocument", wordDoc}, {"1Table", table}}
	if data != nil {
		streams = append(streams, Stream{"Data", data})
	}
	return CompoundFile(streams...)
}

// FakeJPEG returns a JPEG-framed blob of n bytes.
func FakeJPEG(n int) []byte {
	b := bytes.Repeat([]byte{0x11}, n)
	copy(b, []byte{0xFF, 0xD8, 0xFF, 0xE0})
	b[n-2], b[n-1] = 0xFF, 0xD9
	return b
}
