package issuer

import (
	"errors"
	"testing"

	"sycoraxai/voicebroker/pkg/providers"
)

func TestDefaultStrategies(t *testing.T) {
	set := DefaultStrategies(Options{})

	for _, id := range providers.DefaultRegistry().ListKnown() {
		st, err := set.Lookup(id)
		if err != nil {
			t.Errorf("Lookup(%q) error = %v", id, err)
			continue
		}
		if st.Provider() != id {
			t.Errorf("Lookup(%q).Provider() = %q", id, st.Provider())
		}
	}

	_, err := set.Lookup("vapi")
	var f *providers.Failure
	if !errors.As(err, &f) || f.Kind != providers.KindNotConfigured {
		t.Errorf("Lookup(vapi) error = %v, want NotConfigured", err)
	}
}
