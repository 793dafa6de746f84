package app

import (
	"testing"
)

func TestResolveLocale(t *testing.T) {
	cases := []struct {
		prefs []string
		want  string
	}{
		{nil, "pt-BR"},
		{[]string{""}, "pt-BR"},
		{[]string{"en"}, "en-US"},
		{[]string{"pt-PT"}, "pt-BR"},
		{[]string{"fr-FR,en;q=0.8"}, "en-US"},
		{[]string{"de-DE", "en-US"}, "en-US"},
		{[]string{"not a tag", "pt"}, "pt-BR"},
		{[]string{"ja"}, "pt-BR"},
	}
	for _, tc := range cases {
		if got := ResolveLocale(tc.prefs...).String(); got != tc.want {
			t.Errorf("ResolveLocale(%q): want %s, got %s", tc.prefs, tc.want, got)
		}
	}
}

func TestMatchDayLabel(t *testing.T) {
	week := localePtBR.Week()
	cases := map[string]int{
		"QUA":  3,
		"qua":  3,
		" Sáb": 6,
		"sab.": 6,
		"Sun":  0,
		"wed":  3,
	}
	for label, want := range cases {
		got, ok := MatchDayLabel(week, label)
		if !ok || got != want {
			t.Errorf("MatchDayLabel(%q): want %d, got %d (ok=%v)", label, want, got, ok)
		}
	}
	if _, ok := MatchDayLabel(week, ""); ok {
		t.Errorf("empty label should not match")
	}
	if _, ok := MatchDayLabel(week, "lundi"); ok {
		t.Errorf("unknown label should not match")
	}
}

func TestSupportedLocales(t *testing.T) {
	got := SupportedLocales()
	if len(got) != 2 || got[0] != "pt-BR" || got[1] != "en-US" {
		t.Fatalf("unexpected locales %v", got)
	}
}
