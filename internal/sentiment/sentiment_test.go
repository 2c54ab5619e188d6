package sentiment

import (
	"errors"
	"testing"
)

func TestAnalyzeLabels(t *testing.T) {
	a := NewAnalyzer()

	cases := []struct {
		text string
		want Label
	}{
		{"I love this wonderful sunny day, it is great!", Positive},
		{"This is a terrible, awful, horrible experience.", Negative},
		{"The table has four legs.", Neutral},
	}
	for _, tc := range cases {
		t.Run(string(tc.want), func(t *testing.T) {
			res, err := a.Analyze(tc.text)
			if err != nil {
				t.Fatalf("Analyze: %v", err)
			}
			if res.Label != tc.want {
				t.Fatalf("expected %s, got %s (score %v)", tc.want, res.Label, res.Score)
			}
			if res.Score < -1 || res.Score > 1 {
				t.Fatalf("score out of range: %v", res.Score)
			}
		})
	}
}

func TestAnalyzeEmptyText(t *testing.T) {
	for _, text := range []string{"", "   \n\t"} {
		if _, err := NewAnalyzer().Analyze(text); !errors.Is(err, ErrEmptyText) {
			t.Fatalf("expected ErrEmptyText for %q, got %v", text, err)
		}
	}
}

func TestClassify(t *testing.T) {
	if Classify(0.3) != Positive || Classify(-0.01) != Negative || Classify(0) != Neutral {
		t.Fatalf("unexpected classification")
	}
}

func TestWordFrequencies(t *testing.T) {
	got := WordFrequencies("b a b c  a b The the")
	want := []WordCount{{"b", 3}, {"a", 2}, {"The", 1}, {"c", 1}, {"the", 1}}

	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("position %d: expected %v, got %v", i, want[i], got[i])
		}
	}

	if got := WordFrequencies(""); got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %v", got)
	}
}

func TestCloud(t *testing.T) {
	cloud := Cloud("Rain, rain and more RAIN. The sun's out; sun! 42 times", 0)

	if len(cloud) == 0 || cloud[0].Word != "rain" || cloud[0].Count != 3 || cloud[0].Weight != 1 {
		t.Fatalf("expected rain first with weight 1, got %v", cloud)
	}
	words := map[string]CloudWord{}
	for _, w := range cloud {
		words[w.Word] = w
	}
	for _, skipped := range []string{"and", "the", "more", "42"} {
		if _, ok := words[skipped]; ok {
			t.Fatalf("expected %q to be skipped, got %v", skipped, cloud)
		}
	}
	if sun := words["sun"]; sun.Count != 2 {
		t.Fatalf("expected sun counted twice, got %v", sun)
	}
	if got := words["times"].Weight; got < 0.33 || got > 0.34 {
		t.Fatalf("expected times weight 1/3, got %v", got)
	}
}

func TestCloudDropsStopWordsBeforePossessive(t *testing.T) {
	cloud := Cloud("Let's go, let’s see the dog's bone. It's here", 0)

	words := map[string]int{}
	for _, w := range cloud {
		words[w.Word] = w.Count
	}
	for _, skipped := range []string{"let", "let's", "it", "it's"} {
		if _, ok := words[skipped]; ok {
			t.Fatalf("expected %q to be skipped, got %v", skipped, cloud)
		}
	}
	if words["dog"] != 1 || words["go"] != 1 || words["see"] != 1 || words["bone"] != 1 {
		t.Fatalf("unexpected cloud %v", cloud)
	}
}

func TestCloudCap(t *testing.T) {
	if got := Cloud("alpha beta gamma delta", 2); len(got) != 2 {
		t.Fatalf("expected 2 words, got %v", got)
	}
}
