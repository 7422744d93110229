package links_test

import (
	"errors"
	"testing"

	"tunegrab/internal/links"
)

func TestClassifyRecognizedShapesYieldSameRef(t *testing.T) {
	const id = "dQw4w9WgXcQ"
	inputs := []string{
		"https://www.youtube.com/watch?v=dQw4w9WgXcQ",
		"http://youtube.com/watch?v=dQw4w9WgXcQ&t=42s",
		"https://m.youtube.com/watch?feature=share&v=dQw4w9WgXcQ",
		"https://youtu.be/dQw4w9WgXcQ",
		"youtu.be/dQw4w9WgXcQ",
		"https://www.youtube.com/embed/dQw4w9WgXcQ",
		"https://www.youtube.com/shorts/dQw4w9WgXcQ",
		"check this out: https://youtu.be/dQw4w9WgXcQ ok?",
	}

	want := links.Ref{VideoID: id, URL: "https://www.youtube.com/watch?v=" + id}
	for _, input := range inputs {
		ref, err := links.Classify(input)
		if err != nil {
			t.Fatalf("Classify(%q) returned error: %v", input, err)
		}
		if ref != want {
			t.Fatalf("Classify(%q) = %+v, want %+v", input, ref, want)
		}
	}
}

func TestClassifyIsIdempotent(t *testing.T) {
	ref, err := links.Classify("https://youtu.be/abc123defgh")
	if err != nil {
		t.Fatalf("Classify returned error: %v", err)
	}
	again, err := links.Classify(ref.URL)
	if err != nil {
		t.Fatalf("Classify(canonical) returned error: %v", err)
	}
	if again != ref {
		t.Fatalf("re-classifying canonical URL changed the ref: %+v != %+v", again, ref)
	}
}

func TestClassifyNotAURL(t *testing.T) {
	inputs := []string{
		"not a url at all",
		"https://example.com/watch?v=dQw4w9WgXcQ",
		"hello",
		"",
	}
	for _, input := range inputs {
		if _, err := links.Classify(input); !errors.Is(err, links.ErrNotAURL) {
			t.Fatalf("Classify(%q) = %v, want ErrNotAURL", input, err)
		}
	}
}

func TestClassifyUnsupportedLink(t *testing.T) {
	inputs := []string{
		"https://www.youtube.com/playlist?list=PL1234567890",
		"https://www.youtube.com/@somechannel",
		"https://www.youtube.com/channel/UCabcdef",
		"https://youtube.com",
	}
	for _, input := range inputs {
		if _, err := links.Classify(input); !errors.Is(err, links.ErrUnsupportedLink) {
			t.Fatalf("Classify(%q) = %v, want ErrUnsupportedLink", input, err)
		}
	}
}
