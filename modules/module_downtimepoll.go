//go:build modules.downtimepoll || modules.all
// +build modules.downtimepoll modules.all

package modules

import (
	"github.com/lordralex/downtimepoll/modules/downtimepoll"
)

func init() {
	Add(&downtimepoll.Module{})
}
