package handler

// DI for all handlers alike.

import (
	"github.com/yumyai/knowdegs/pkg/client"
	degdb "github.com/yumyai/knowdegs/pkg/db"
)

type ReportContext struct {
	Store   *degdb.SessionStore
	MyGene  *client.MyGeneClient
	Enrichr *client.EnrichrClient
}
