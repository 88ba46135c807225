package auction

import (
	"errors"
	"fmt"
	"testing"
)

func TestCodeAndKindOfWrappedErrors(t *testing.T) {
	err := fmt.Errorf("%w: need 120000", ErrBidBelowIncrement)
	if got := CodeOf(err); got != "bid_below_increment" {
		t.Fatalf("unexpected code %q", got)
	}
	if got := KindOf(err); got != KindValidation {
		t.Fatalf("unexpected kind %q", got)
	}
	if got := KindOf(fmt.Errorf("load: %w", ErrTradeNotFound)); got != KindNotFound {
		t.Fatalf("unexpected kind %q", got)
	}
	if got := CodeOf(errors.New("boom")); got != "internal_error" {
		t.Fatalf("unexpected code %q", got)
	}
	if got := KindOf(errors.New("boom")); got != KindInternal {
		t.Fatalf("unexpected kind %q", got)
	}
	if KindOf(nil) != "" {
		t.Fatalf("nil error should have no kind")
	}
}

func TestEverySentinelHasKind(t *testing.T) {
	for target, kind := range errorKinds {
		if kind == "" || kind == KindInternal {
			t.Fatalf("%v mapped to %q", target, kind)
		}
		if CodeOf(target) != target.Error() {
			t.Fatalf("%v code mismatch", target)
		}
	}
}
