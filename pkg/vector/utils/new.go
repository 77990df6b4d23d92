package vectorutils

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/AISHITA-10/ai-resume-screener/pkg/vector"
	"github.com/AISHITA-10/ai-resume-screener/pkg/vector/memory"
	"github.com/AISHITA-10/ai-resume-screener/pkg/vector/sqlite"
)

type NewStoreOpts struct {
	ProviderType string
	SQLitePath   string
	Dimensions   int
	Logger       *zap.Logger
}

func NewStore(o *NewStoreOpts) (vector.Store, error) {
	switch o.ProviderType {
	case "sqlite":
		return sqlite.New(sqlite.Config{
			DBPath:     o.SQLitePath,
			Dimensions: o.Dimensions,
		}, o.Logger)
	case "memory":
		return memory.New(o.Dimensions)
	default:
		return nil, fmt.Errorf("unsupported vector store provider: %s", o.ProviderType)
	}
}
