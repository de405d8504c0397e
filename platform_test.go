package hastemap

import "testing"

func TestExtractPlatformRecognizedToken(t *testing.T) {
	if got := ExtractPlatform("/src/P.ios.js", []string{"ios", "android"}); got != "ios" {
		t.Errorf("got %q", got)
	}
}

func TestExtractPlatformGenericWhenNoToken(t *testing.T) {
	if got := ExtractPlatform("/src/P.js", []string{"ios", "android"}); got != GenericPlatform {
		t.Errorf("got %q", got)
	}
}

func TestExtractPlatformGenericWhenTokenNotConfigured(t *testing.T) {
	if got := ExtractPlatform("/src/P.potato.js", []string{"ios", "android"}); got != GenericPlatform {
		t.Errorf("got %q", got)
	}
}

func TestMockStem(t *testing.T) {
	if got := MockStem("/src/__mocks__/a.js"); got != "a" {
		t.Errorf("got %q", got)
	}
}
