package atlas

import (
	"bytes"
	"encoding/json"
	"image"
	"image/png"
	"testing"
)

func TestOutputDataEncodePNGRoundTrips(t *testing.T) {
	o := &OutputData{AtlasImage: image.NewNRGBA(image.Rect(0, 0, 4, 4))}

	var buf bytes.Buffer
	if err := o.EncodePNG(&buf); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	decoded, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("failed to decode encoded png: %s", err)
	}
	if decoded.Bounds().Dx() != 4 || decoded.Bounds().Dy() != 4 {
		t.Fatalf("expected 4x4 decoded image, got %v", decoded.Bounds())
	}
}

func TestOutputDataMarshalJSONOmitsPixels(t *testing.T) {
	o := &OutputData{
		AtlasImage: image.NewNRGBA(image.Rect(0, 0, 2, 2)),
		SpriteFrames: map[string]SpriteFrameInfo{
			"a": {Frame: image.Rect(0, 0, 2, 2)},
		},
		PageIndex: 1,
	}

	raw, err := json.Marshal(o)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	var decoded map[string]interface{}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("failed to unmarshal: %s", err)
	}
	if _, ok := decoded["AtlasImage"]; ok {
		t.Fatalf("expected pixel buffer to be omitted from JSON output")
	}
	if decoded["page_index"].(float64) != 1 {
		t.Fatalf("expected page_index 1, got %v", decoded["page_index"])
	}
}

func TestMeshEmpty(t *testing.T) {
	var m Mesh
	if !m.Empty() {
		t.Fatalf("expected zero-value mesh to be empty")
	}
	m.Indices = [][3]int{{0, 1, 2}}
	if m.Empty() {
		t.Fatalf("expected mesh with indices to be non-empty")
	}
}
