package transcript

import "testing"

func TestParseISODuration(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"PT1H2M3S", 3723},
		{"PT15M33S", 933},
		{"PT45S", 45},
		{"PT2H", 7200},
		{"PT1H5S", 3605},
		{"", 0},
		{"P1D", 0},
		{"garbage", 0},
	}

	for _, tc := range cases {
		if got := parseISODuration(tc.in); got != tc.want {
			t.Errorf("parseISODuration(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestOAuthSource_SentinelTokensNotAttempted(t *testing.T) {
	for _, token := range []string{"", "null", "undefined"} {
		src := NewOAuthSource(token, nil, "test")
		if src.Available() {
			t.Errorf("token %q must leave the source unavailable", token)
		}
	}

	if !NewOAuthSource("ya29.real-token", nil, "test").Available() {
		t.Error("real token should make the source available")
	}
}
