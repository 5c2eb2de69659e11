package libmpv

import (
	"fmt"

	"github.com/samber/lo"
	"golang.org/x/exp/slices"

	"github.com/tsukinaha/tsukimi-sub001/log"
)

// the bridge drives mpv, not a terminal
var builtinOptions = [][2]string{
	{"terminal", "no"},
	{"idle", "yes"},
	{"force-window", "yes"},
	{"input-default-bindings", "yes"},
	{"input-vo-keyboard", "yes"},
}

// applyOptions sets the built-in options, then the user options in key order.
// A rejected built-in option is logged; a rejected user option is returned.
func applyOptions(set func(name, value string) error, options map[string]string) error {
	for _, opt := range builtinOptions {
		if err := set(opt[0], opt[1]); err != nil {
			log.Warnf("libmpv option %s=%s: %s", opt[0], opt[1], err)
		}
	}

	keys := lo.Keys(options)
	slices.Sort(keys)
	for _, k := range keys {
		if err := set(k, options[k]); err != nil {
			return fmt.Errorf("option %s: %w", k, err)
		}
	}
	return nil
}
