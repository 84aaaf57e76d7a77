package cfb

import (
	"encoding/binary"
	"fmt"
	"time"
	"unicode/utf16"
)

const (
	sectorSize     = 512
	miniSectorSize = 64
	miniCutoff     = 4096
	dirEntrySize   = 128
	fatPerSector   = sectorSize / 4
	headerDIFAT    = 109

	freeSect   uint32 = 0xFFFFFFFF
	endOfChain uint32 = 0xFFFFFFFE
	fatSect    uint32 = 0xFFFFFFFD
	noStream   uint32 = 0xFFFFFFFF

	typeStorage byte = 1
	typeStream  byte = 2
	typeRoot    byte = 5

	colorRed   byte = 0
	colorBlack byte = 1
)

var signature = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}

// filetimeEpoch is 1601-01-01 expressed in 100ns units before the Unix epoch.
const filetimeEpoch = 116444736000000000

type dirEntry struct {
	name  string
	kind  byte
	color byte
	left  uint32
	right uint32
	child uint32
	start uint32
	size  uint64
	mtime uint64

	data    []byte
	storage *Storage
}

type layout struct {
	entries []*dirEntry
}

// Bytes serialises the container as a version 3 compound file.
func (c *Container) Bytes() ([]byte, error) {
	l := &layout{}
	root := &dirEntry{
		name:    rootEntryName,
		kind:    typeRoot,
		color:   colorBlack,
		left:    noStream,
		right:   noStream,
		child:   noStream,
		storage: c.root,
	}
	if c.clock != nil {
		root.mtime = filetime(c.clock.Now())
	}
	l.entries = append(l.entries, root)
	l.addChildren(root)

	// Split streams between the mini stream and regular sectors.
	var (
		miniStream []byte
		miniFAT    []uint32
		big        []*dirEntry
	)
	for _, e := range l.entries {
		if e.kind != typeStream {
			continue
		}
		switch {
		case e.size == 0:
			e.start = endOfChain
		case e.size < miniCutoff:
			n := sectorsFor(len(e.data), miniSectorSize)
			e.start = uint32(len(miniFAT))
			miniFAT = appendChain(miniFAT, e.start, n)
			padded := make([]byte, n*miniSectorSize)
			copy(padded, e.data)
			miniStream = append(miniStream, padded...)
		default:
			big = append(big, e)
		}
	}

	miniStreamSectors := sectorsFor(len(miniStream), sectorSize)
	miniFATSectors := sectorsFor(len(miniFAT)*4, sectorSize)
	dirSectors := sectorsFor(len(l.entries)*dirEntrySize, sectorSize)
	bigSectors := 0
	for _, e := range big {
		bigSectors += sectorsFor(len(e.data), sectorSize)
	}

	dataSectors := dirSectors + miniFATSectors + miniStreamSectors + bigSectors
	fatSectors := 1
	for fatSectors*fatPerSector < dataSectors+fatSectors {
		fatSectors++
	}
	if fatSectors > headerDIFAT {
		return nil, fmt.Errorf("%w: %d FAT sectors needed, at most %d supported", ErrTooLarge, fatSectors, headerDIFAT)
	}

	// Sector order: FAT, directory, mini FAT, mini stream, large streams.
	fat := make([]uint32, fatSectors*fatPerSector)
	for i := range fat {
		fat[i] = freeSect
	}
	for i := 0; i < fatSectors; i++ {
		fat[i] = fatSect
	}

	next := uint32(fatSectors)
	allocate := func(n int) uint32 {
		if n == 0 {
			return endOfChain
		}
		start := next
		appendChainAt(fat, start, n)
		next += uint32(n)
		return start
	}

	dirStart := allocate(dirSectors)
	miniFATStart := allocate(miniFATSectors)
	miniStreamStart := allocate(miniStreamSectors)
	for _, e := range big {
		e.start = allocate(sectorsFor(len(e.data), sectorSize))
	}

	root.start = miniStreamStart
	root.size = uint64(len(miniStream))

	totalSectors := fatSectors + dataSectors
	out := make([]byte, sectorSize*(1+totalSectors))
	writeHeader(out[:sectorSize], fatSectors, dirStart, miniFATStart, miniFATSectors)

	sector := func(id uint32) []byte {
		off := sectorSize * (1 + int(id))
		return out[off:]
	}

	for i, v := range fat {
		binary.LittleEndian.PutUint32(out[sectorSize+i*4:], v)
	}

	dir := sector(dirStart)
	for i := 0; i < dirSectors*sectorSize/dirEntrySize; i++ {
		buf := dir[i*dirEntrySize : (i+1)*dirEntrySize]
		if i < len(l.entries) {
			l.entries[i].encode(buf)
		} else {
			encodeUnused(buf)
		}
	}

	if miniFATSectors > 0 {
		mf := sector(miniFATStart)
		for i := 0; i < miniFATSectors*fatPerSector; i++ {
			v := freeSect
			if i < len(miniFAT) {
				v = miniFAT[i]
			}
			binary.LittleEndian.PutUint32(mf[i*4:], v)
		}
	}

	if miniStreamSectors > 0 {
		copy(sector(miniStreamStart), miniStream)
	}

	for _, e := range big {
		copy(sector(e.start), e.data)
	}

	return out, nil
}

// addChildren registers the children of parent's storage and links them as a
// balanced, red-black coloured sibling tree under parent.
func (l *layout) addChildren(parent *dirEntry) {
	children := sortedEntries(parent.storage.children)
	if len(children) == 0 {
		return
	}

	ids := make([]uint32, len(children))
	for i, ch := range children {
		ids[i] = uint32(len(l.entries))
		e := &dirEntry{
			name:  ch.name,
			left:  noStream,
			right: noStream,
			child: noStream,
		}
		if ch.storage != nil {
			e.kind = typeStorage
			e.storage = ch.storage
		} else {
			e.kind = typeStream
			e.data = ch.data
			e.size = uint64(len(ch.data))
		}
		l.entries = append(l.entries, e)
	}

	parent.child = l.buildTree(ids, 0, treeDepth(len(ids)))

	for _, id := range ids {
		if e := l.entries[id]; e.kind == typeStorage {
			l.addChildren(e)
		}
	}
}

// buildTree links ids (already in name order) by repeated midpoint split.
// Nodes on the deepest level are red, all others black, which keeps the
// black height equal on every path.
func (l *layout) buildTree(ids []uint32, depth, maxDepth int) uint32 {
	if len(ids) == 0 {
		return noStream
	}
	mid := len(ids) / 2
	e := l.entries[ids[mid]]
	e.left = l.buildTree(ids[:mid], depth+1, maxDepth)
	e.right = l.buildTree(ids[mid+1:], depth+1, maxDepth)
	e.color = colorBlack
	if depth > 0 && depth == maxDepth {
		e.color = colorRed
	}
	return ids[mid]
}

// treeDepth is the depth of the deepest node of a midpoint-split tree of n nodes.
func treeDepth(n int) int {
	depth := 0
	for n > 1 {
		n /= 2
		depth++
	}
	return depth
}

func (e *dirEntry) encode(buf []byte) {
	units := utf16.Encode([]rune(e.name))
	for i, u := range units {
		binary.LittleEndian.PutUint16(buf[i*2:], u)
	}
	binary.LittleEndian.PutUint16(buf[0x40:], uint16((len(units)+1)*2))
	buf[0x42] = e.kind
	buf[0x43] = e.color
	binary.LittleEndian.PutUint32(buf[0x44:], e.left)
	binary.LittleEndian.PutUint32(buf[0x48:], e.right)
	binary.LittleEndian.PutUint32(buf[0x4C:], e.child)
	binary.LittleEndian.PutUint64(buf[0x6C:], e.mtime)
	binary.LittleEndian.PutUint32(buf[0x74:], e.start)
	binary.LittleEndian.PutUint64(buf[0x78:], e.size)
}

func encodeUnused(buf []byte) {
	binary.LittleEndian.PutUint32(buf[0x44:], noStream)
	binary.LittleEndian.PutUint32(buf[0x48:], noStream)
	binary.LittleEndian.PutUint32(buf[0x4C:], noStream)
}

func writeHeader(buf []byte, fatSectors int, dirStart, miniFATStart uint32, miniFATSectors int) {
	copy(buf, signature)
	binary.LittleEndian.PutUint16(buf[0x18:], 0x003E) // minor version
	binary.LittleEndian.PutUint16(buf[0x1A:], 0x0003) // major version
	binary.LittleEndian.PutUint16(buf[0x1C:], 0xFFFE) // byte order
	binary.LittleEndian.PutUint16(buf[0x1E:], 9)      // sector shift
	binary.LittleEndian.PutUint16(buf[0x20:], 6)      // mini sector shift
	binary.LittleEndian.PutUint32(buf[0x2C:], uint32(fatSectors))
	binary.LittleEndian.PutUint32(buf[0x30:], dirStart)
	binary.LittleEndian.PutUint32(buf[0x38:], miniCutoff)
	binary.LittleEndian.PutUint32(buf[0x3C:], miniFATStart)
	binary.LittleEndian.PutUint32(buf[0x40:], uint32(miniFATSectors))
	binary.LittleEndian.PutUint32(buf[0x44:], endOfChain) // no DIFAT sectors
	for i := 0; i < headerDIFAT; i++ {
		v := freeSect
		if i < fatSectors {
			v = uint32(i)
		}
		binary.LittleEndian.PutUint32(buf[0x4C+i*4:], v)
	}
}

func appendChain(chain []uint32, start uint32, n int) []uint32 {
	for i := 1; i < n; i++ {
		chain = append(chain, start+uint32(i))
	}
	return append(chain, endOfChain)
}

func appendChainAt(fat []uint32, start uint32, n int) {
	for i := 0; i < n-1; i++ {
		fat[start+uint32(i)] = start + uint32(i) + 1
	}
	fat[start+uint32(n-1)] = endOfChain
}

func sectorsFor(size, unit int) int {
	return (size + unit - 1) / unit
}

func filetime(t time.Time) uint64 {
	if t.IsZero() {
		return 0
	}
	return uint64(t.UnixNano()/100 + filetimeEpoch)
}
