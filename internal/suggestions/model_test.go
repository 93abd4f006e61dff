package suggestions

import "testing"

func TestStatusTransitionsAreForwardOnly(t *testing.T) {
	allowed := []struct {
		from, to Status
	}{
		{StatusGenerated, StatusNotifiedVendor},
		{StatusGenerated, StatusFeedbackReceived},
		{StatusGenerated, StatusExpired},
		{StatusNotifiedVendor, StatusFeedbackReceived},
		{StatusNotifiedVendor, StatusExpired},
		{StatusFeedbackReceived, StatusDealPosted},
		{StatusFeedbackReceived, StatusDealPostFailed},
		{StatusFeedbackReceived, StatusExpired},
	}
	for _, tr := range allowed {
		if !tr.from.CanTransitionTo(tr.to) {
			t.Errorf("expected %s -> %s to be allowed", tr.from, tr.to)
		}
	}

	forbidden := []struct {
		from, to Status
	}{
		{StatusNotifiedVendor, StatusGenerated},
		{StatusFeedbackReceived, StatusGenerated},
		{StatusFeedbackReceived, StatusNotifiedVendor},
		{StatusDealPostFailed, StatusFeedbackReceived},
		{StatusDealPostFailed, StatusDealPosted},
		{StatusDealPosted, StatusExpired},
		{StatusExpired, StatusGenerated},
		{StatusGenerated, StatusDealPosted},
	}
	for _, tr := range forbidden {
		if tr.from.CanTransitionTo(tr.to) {
			t.Errorf("expected %s -> %s to be rejected", tr.from, tr.to)
		}
	}
}

func TestTerminalStatusesHaveNoOutgoingTransitions(t *testing.T) {
	terminals := []Status{StatusDealPosted, StatusDealPostFailed, StatusExpired}
	all := []Status{
		StatusGenerated, StatusNotifiedVendor, StatusFeedbackReceived,
		StatusDealPosted, StatusDealPostFailed, StatusExpired,
	}

	for _, term := range terminals {
		if !term.Terminal() {
			t.Errorf("%s should be terminal", term)
		}
		for _, next := range all {
			if term.CanTransitionTo(next) {
				t.Errorf("terminal %s must not transition to %s", term, next)
			}
		}
	}
}

func TestSuggestedPricePercentage(t *testing.T) {
	price, err := SuggestedPrice(400, DiscountPercentage, 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if price != 320 {
		t.Fatalf("expected 320, got %.2f", price)
	}
}

func TestSuggestedPriceFixedAmount(t *testing.T) {
	price, err := SuggestedPrice(400, DiscountFixedAmount, 80)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if price != 320 {
		t.Fatalf("expected 320, got %.2f", price)
	}
}

func TestSuggestedPriceRejectsNegativeResult(t *testing.T) {
	if _, err := SuggestedPrice(100, DiscountFixedAmount, 150); err == nil {
		t.Fatal("expected error for discount larger than price")
	}
}

func TestSuggestedPriceRejectsBadInputs(t *testing.T) {
	if _, err := SuggestedPrice(100, DiscountPercentage, 120); err == nil {
		t.Fatal("expected error for percentage over 100")
	}
	if _, err := SuggestedPrice(100, DiscountPercentage, 0); err == nil {
		t.Fatal("expected error for zero discount")
	}
	if _, err := SuggestedPrice(0, DiscountPercentage, 10); err == nil {
		t.Fatal("expected error for zero original price")
	}
	if _, err := SuggestedPrice(100, DiscountType("bogo"), 10); err == nil {
		t.Fatal("expected error for unknown discount type")
	}
}

func TestSuggestedPriceRounds(t *testing.T) {
	price, err := SuggestedPrice(99.99, DiscountPercentage, 33)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if price != 66.99 {
		t.Fatalf("expected 66.99, got %.2f", price)
	}
}
