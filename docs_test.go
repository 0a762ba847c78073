package carbon_test

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/xraph/carbon"
	"github.com/xraph/carbon/convert"
	"github.com/xraph/carbon/store/memory"
)

// TestDocumentationExamples verifies that the package documentation examples work.
func TestDocumentationExamples(t *testing.T) {
	t.Run("QuickStartExample", func(t *testing.T) {
		l := carbon.New(memory.New(), carbon.WithLogger(slog.Default()))

		ctx := context.Background()
		if err := l.Start(ctx); err != nil {
			t.Fatal(err)
		}
		defer l.Stop()

		rec, err := l.Record(ctx, "acme", 250_000, "electricity")
		if err != nil {
			t.Fatal(err)
		}
		if rec.ID.IsNil() {
			t.Error("record id not assigned")
		}

		total, err := l.TotalByCategory(ctx, "acme", "electricity")
		if err != nil {
			t.Fatal(err)
		}
		if total != 250_000 {
			t.Errorf("total = %d, want 250000", total)
		}
	})

	t.Run("IdentityExample", func(t *testing.T) {
		l := carbon.New(memory.New())
		ctx := carbon.WithAccount(context.Background(), "acme")

		if _, err := l.RecordFromContext(ctx, 1, "fuel"); err != nil {
			t.Fatal(err)
		}
		if _, err := l.RecordFromContext(context.Background(), 1, "fuel"); !errors.Is(err, carbon.ErrNoAccount) {
			t.Errorf("expected ErrNoAccount, got %v", err)
		}
	})
}

func ExampleLedger_TotalByTimeWindow() {
	ctx := context.Background()
	l := carbon.New(memory.New())

	_, _ = l.Record(ctx, "acme", 100, "energy")
	_, _ = l.Record(ctx, "acme", 50, "transport")

	// Inverted windows select nothing.
	total, _ := l.TotalByTimeWindow(ctx, "acme", 30, 10)
	fmt.Println(total)
	// Output: 0
}

func ExampleLedger_Breakdown() {
	ctx := context.Background()
	l := carbon.New(memory.New())

	_, _ = l.Record(ctx, "acme", 100, "energy")
	_, _ = l.Record(ctx, "acme", 25, "energy")
	_, _ = l.Record(ctx, "acme", 50, "transport")

	totals, _ := l.Breakdown(ctx, "acme")
	fmt.Println(totals["energy"], totals["transport"])
	// Output: 125 50
}

func ExampleParseAmount() {
	_, err := carbon.ParseAmount("-5")
	fmt.Println(carbon.IsInvalidInput(err))
	// Output: true
}

func Example_convert() {
	// 12 kWh at a factor of 400000 ppm per kWh.
	out, _ := convert.Emissions(12, 400_000)
	fmt.Println(out)
	// Output: 4800000
}
