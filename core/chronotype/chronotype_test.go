package chronotype

import (
	"testing"

	"github.com/aurelh/chronoplan/core/model"
)

func TestMEQAnalyzer(t *testing.T) {
	var a MEQAnalyzer
	ct, win := a.Classify(model.Profile{MEQScore: 70})
	if ct != EarlyBird {
		t.Fatalf("chronotype = %s, want %s", ct, EarlyBird)
	}
	if win != Prime(EarlyBird) {
		t.Fatalf("window = %+v, want %+v", win, Prime(EarlyBird))
	}
	if ct, _ := a.Classify(model.Profile{}); ct != Unknown {
		t.Fatalf("zero score classified as %s, want %s", ct, Unknown)
	}
}

func TestClassify(t *testing.T) {
	cases := []struct {
		score int
		want  Chronotype
	}{
		{16, NightOwl},
		{41, NightOwl},
		{42, Intermediate},
		{58, Intermediate},
		{59, EarlyBird},
		{86, EarlyBird},
		{15, Unknown},
		{87, Unknown},
		{0, Unknown},
	}
	var cl MEQClassifier
	for _, c := range cases {
		if got := cl.Classify(c.score); got != c.want {
			t.Fatalf("Classify(%d) = %s, want %s", c.score, got, c.want)
		}
	}
}

func TestPrime(t *testing.T) {
	cases := []struct {
		ct         Chronotype
		start, end int
	}{
		{EarlyBird, 7, 11},
		{Intermediate, 10, 16},
		{NightOwl, 17, 22},
		{Unknown, 10, 14},
	}
	for _, c := range cases {
		w := Prime(c.ct)
		if w.StartHour != c.start || w.EndHour != c.end {
			t.Fatalf("Prime(%s) = [%d,%d), want [%d,%d)", c.ct, w.StartHour, w.EndHour, c.start, c.end)
		}
	}
	if !Prime(EarlyBird).Contains(7) {
		t.Fatal("start hour should be inside the window")
	}
	if Prime(EarlyBird).Contains(11) {
		t.Fatal("end hour is exclusive")
	}
}
