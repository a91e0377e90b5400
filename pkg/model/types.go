package model

// Canonical column names of the input table.
const (
	ColGeneSymbol = "Gene_Symbol"
	ColLog2FC     = "log2(FC)"
	ColPadj       = "Padj"
	ColIsHub      = "IsHub"
	ColRegulation = "Regulation"
)

// Regulation classes. A row is "Up" when log2(FC) > 1, everything
// else is "Down" (values in (-1,1] included, matching the source rule).
const (
	RegulationUp   = "Up"
	RegulationDown = "Down"
)

// IsHubUnknown fills the IsHub column when the upload has none.
const IsHubUnknown = "Unknown"

type DEGRow struct {
	GeneSymbol string  `json:"gene_symbol"`
	Log2FC     float64 `json:"log2_fc"`
	Padj       float64 `json:"padj"`
	IsHub      string  `json:"is_hub"`
	Regulation string  `json:"regulation"`
}

// DEGTable is the augmented upload: every row carries a derived
// Regulation value and a non-empty IsHub value. Read-only after load.
type DEGTable struct {
	Filename string    `json:"filename"`
	Rows     []*DEGRow `json:"rows"`
}

type AnnotationStatus string

const (
	AnnotationOK      AnnotationStatus = "ok"
	AnnotationNoMatch AnnotationStatus = "no_match"
	AnnotationFailed  AnnotationStatus = "failed"
)

// Annotation is one gene-information lookup result.
type Annotation struct {
	Symbol  string           `json:"symbol"`
	Name    string           `json:"name"`
	Summary string           `json:"summary"`
	Status  AnnotationStatus `json:"status"`
}

// EnrichmentTerm is one pathway hit, kept in service rank order.
type EnrichmentTerm struct {
	Term      string   `json:"term"`
	PValue    float64  `json:"p_value"`
	Genes     []string `json:"genes"`
	NegLog10P float64  `json:"neg_log10_p"`
}
