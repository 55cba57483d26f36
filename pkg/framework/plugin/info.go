package plugin

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/justyntemme/dynacore/pkg/framework/bus"
)

// Info contains plugin metadata
type Info struct {
	ID        string // Unique plugin identifier (e.g., "com.example.myplugin")
	Name      string // Display name
	Version   string // Semantic version (e.g., "1.0.0")
	Vendor    string // Company/developer name
	Category  string // Plugin category (e.g., "Fx", "Instrument")
	ChannelIO string // accepted "in-out" channel counts, e.g. "1-1 2-2"
}

// UID derives a stable 16-byte class ID from the string ID
func (i Info) UID() [16]byte {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(i.ID))
}

// UIDString returns the UID in canonical UUID form
func (i Info) UIDString() string {
	return uuid.UUID(i.UID()).String()
}

// ValidateUID checks that the metadata can produce a UID
func (i Info) ValidateUID() error {
	if i.ID == "" {
		return errors.New("plugin ID is empty")
	}
	if uuid.UUID(i.UID()) == uuid.Nil {
		return fmt.Errorf("plugin ID %q produced a nil UID", i.ID)
	}
	return nil
}

// Layouts parses the channel I/O string. An empty string means stereo
// in, stereo out.
func (i Info) Layouts() (bus.Layouts, error) {
	if i.ChannelIO == "" {
		return bus.Layouts{bus.NewStereoConfiguration()}, nil
	}
	layouts, err := bus.ParseChannelIO(i.ChannelIO)
	if err != nil {
		return nil, fmt.Errorf("plugin %s: %w", i.Name, err)
	}
	return layouts, nil
}
