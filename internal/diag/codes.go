package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Structural
	CSVUnbalancedQuotes   Code = 1
	CSVFieldCountMismatch Code = 2
	CSVInfo               Code = 999

	// Input
	IOLoadFileError Code = 4001
	IOEmptyDocument Code = 4002
)

var (
	codeDescription = map[Code]string{
		UnknownCode:           "Unknown issue",
		CSVUnbalancedQuotes:   "Unbalanced quotes",
		CSVFieldCountMismatch: "Field count mismatch",
		CSVInfo:               "Structural information",
		IOLoadFileError:       "I/O load file error",
		IOEmptyDocument:       "Empty document",
	}
)

func (c Code) ID() string {
	switch ic := int(c); {
	case ic > 0 && ic < 1000:
		return fmt.Sprintf("CSV%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
