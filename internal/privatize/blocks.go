package privatize

// Block is an inclusive range of code points that are all valid as a
// complete single-character JavaScript identifier.
type Block struct {
	Low  rune
	High rune
}

func (b Block) Len() int {
	return int(b.High-b.Low) + 1
}

// These are tried in this order. The order matters: names are handed out
// starting from the first block, and existing output would be renamed if it
// changed.
var sourceBlocks = []Block{
	{5121, 5740},   // Unified Canadian Aboriginal Syllabics
	{63744, 64109}, // CJK Compatibility Ideographs
	{4348, 4680},   // Georgian, Hangul Jamo and Ethiopic
	{64467, 64829}, // Arabic Presentation Forms-A
	{64326, 64433}, // Hebrew and Arabic Presentation Forms
	{1162, 1327},   // Cyrillic
}

var latinExtended = Block{256, 705}

// Latin-1 Supplement letters without "×" and "÷", then Latin Extended
var latin1Letters = []Block{
	{192, 214},
	{216, 246},
	{248, 705},
}

var basicTable = buildTable(sourceBlocks, []Block{latinExtended})
var extendedTable = buildTable(latin1Letters, sourceBlocks)

func buildTable(parts ...[]Block) []Block {
	var table []Block
	for _, part := range parts {
		table = append(table, part...)
	}
	return table
}

// BlockTable returns the ordered ranges used to mint minified names, or nil
// when names are not minified. The returned slice must not be modified.
func BlockTable(minify bool, extendedAlphabet bool) []Block {
	if !minify {
		return nil
	}
	if extendedAlphabet {
		return extendedTable
	}
	return basicTable
}

// Capacity is the number of distinct names a table can produce
func Capacity(table []Block) int {
	n := 0
	for _, block := range table {
		n += block.Len()
	}
	return n
}
