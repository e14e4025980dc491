package wasmfile

// SectionID identifies a top-level WebAssembly section.
type SectionID byte

// Section ids used by this tool. Anything not listed here is opaque and
// copied verbatim by Walk's callers.
const (
	SectionCustom    SectionID = 0
	SectionType      SectionID = 1
	SectionImport    SectionID = 2
	SectionFunction  SectionID = 3
	SectionTable     SectionID = 4
	SectionMemory    SectionID = 5
	SectionGlobal    SectionID = 6
	SectionExport    SectionID = 7
	SectionStart     SectionID = 8
	SectionElement   SectionID = 9
	SectionCode      SectionID = 10
	SectionData      SectionID = 11
	SectionDataCount SectionID = 12
	SectionTag       SectionID = 13
)

func (id SectionID) String() string {
	switch id {
	case SectionCustom:
		return "custom"
	case SectionType:
		return "type"
	case SectionImport:
		return "import"
	case SectionFunction:
		return "function"
	case SectionTable:
		return "table"
	case SectionMemory:
		return "memory"
	case SectionGlobal:
		return "global"
	case SectionExport:
		return "export"
	case SectionStart:
		return "start"
	case SectionElement:
		return "element"
	case SectionCode:
		return "code"
	case SectionData:
		return "data"
	case SectionDataCount:
		return "data count"
	case SectionTag:
		return "tag"
	default:
		return "unknown"
	}
}

// ImportKind is the small-integer tag WebAssembly uses for import/export
// descriptors. Kept as a tagged byte rather than a class hierarchy per
// spec.md §9 ("implicit polymorphism over kind tags").
type ImportKind byte

const (
	KindFunc   ImportKind = 0
	KindTable  ImportKind = 1
	KindMemory ImportKind = 2
	KindGlobal ImportKind = 3
)

func (k ImportKind) String() string {
	switch k {
	case KindFunc:
		return "func"
	case KindTable:
		return "table"
	case KindMemory:
		return "memory"
	case KindGlobal:
		return "global"
	default:
		return "unknown"
	}
}

// Limits describes the size constraints of a table or memory import/export.
// Min/Max are counted in WebAssembly pages (64 KiB each) for memories.
type Limits struct {
	Max     *uint32
	Min     uint32
	Shared  bool
	HasMax  bool
	present bool // internal: distinguishes a zero Limits from an absent one
}

// Import represents one entry of the import vector. Only the fields
// relevant to Kind are populated; the rest are zero.
type Import struct {
	Module string
	Field  string
	Kind   ImportKind

	// offset/length of the field-name bytes within the module, set by
	// ReadImports. RewriteImportFields re-encodes the whole import
	// section and does not read them.
	fieldOffset int
	fieldLen    int

	TypeIdx       uint32 // KindFunc
	TableElemType byte   // KindTable: 0x70 funcref, 0x6F externref
	TableLimits   Limits // KindTable
	MemoryLimits  Limits // KindMemory
	GlobalValType byte   // KindGlobal
	GlobalMutable bool   // KindGlobal
}

// Export represents one entry of the export vector.
type Export struct {
	Field string
	Kind  ImportKind
	Index uint32

	// offset of the whole entry within the module, and its encoded
	// length, set by ReadExports. RemoveExports rebuilds the export
	// section and does not read them.
	entryOffset int
	entryLen    int
}

// CustomSection is a decoded custom section: its name and raw payload.
type CustomSection struct {
	Name    string
	Payload []byte

	offset int // offset of the section id byte within the module
	length int // total encoded length (id + size leb + payload)
}
