package grammar

import (
	"os"
	"testing"

	"golang.org/x/exp/ebnf"
)

// TestEBNF verifies that grammar.ebnf, the authoritative description of
// zeus's surface syntax, is well-formed and self-contained starting from
// the Chunk production.
func TestEBNF(t *testing.T) {
	f, err := os.Open("grammar.ebnf")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	g, err := ebnf.Parse("grammar.ebnf", f)
	if err != nil {
		t.Fatal(err)
	}
	if err := ebnf.Verify(g, "Chunk"); err != nil {
		t.Fatal(err)
	}
}
