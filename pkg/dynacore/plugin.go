// Package dynacore is the DynaCore effect: input drive, a compressor and
// four modulation modules in series, followed by output gain, bypass and
// the output level meter.
package dynacore

import (
	"github.com/justyntemme/dynacore/pkg/framework/plugin"
)

// Info describes the DynaCore plugin
var Info = plugin.Info{
	ID:        "com.acmeinc.dynacore",
	Name:      "DynaCore",
	Version:   "1.0.0",
	Vendor:    "AcmeInc",
	Category:  "Fx|Dynamics",
	ChannelIO: "1-1 2-2",
}
