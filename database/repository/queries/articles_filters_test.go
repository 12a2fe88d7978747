package queries

import "testing"

func TestArticleFiltersSanitise(t *testing.T) {
	f := ArticleFilters{
		Category: "  Travel  ",
		Text:     "  Slow MORNINGS ",
		Limit:    -3,
	}

	if f.GetCategory() != "travel" {
		t.Fatalf("got %s", f.GetCategory())
	}

	if f.GetText() != "slow mornings" {
		t.Fatalf("got %s", f.GetText())
	}

	if f.GetLimit() != 0 {
		t.Fatalf("got %d", f.GetLimit())
	}
}

func TestArticleFiltersCategoryIsLiteral(t *testing.T) {
	for _, seed := range []string{"All", "all", " ALL "} {
		f := ArticleFilters{Category: seed}

		if f.GetCategory() != "all" {
			t.Fatalf("expected %q to stay a literal category, got %s", seed, f.GetCategory())
		}
	}

	if (ArticleFilters{Category: "   "}).GetCategory() != "" {
		t.Fatalf("expected blank category to disable the filter")
	}
}

func TestEscapeLike(t *testing.T) {
	if got := escapeLike(`50%_off\`); got != `50\%\_off\\` {
		t.Fatalf("got %s", got)
	}
}
