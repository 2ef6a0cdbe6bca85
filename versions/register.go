package versions

import (
	"github.com/perfkit/dashboard/migration"
	"github.com/perfkit/dashboard/walker"
	"github.com/tendermint/tendermint/libs/log"
)

// NewRegister returns a register holding all known dashboard schema versions.
func NewRegister(logger log.Logger) *migration.Register {
	wk := walker.New(logger)
	reg := migration.NewRegister()
	reg.MustRegister(V1(wk))
	reg.MustRegister(V2(wk))
	reg.MustRegister(V3(wk))
	reg.MustRegister(V4(wk))
	reg.MustRegister(V5(wk))
	return reg
}
