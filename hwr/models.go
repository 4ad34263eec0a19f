package hwr

// BatchInput is the request body of the iink batch endpoint.
type BatchInput struct {
	Configuration *Configuration `json:"configuration,omitempty"`
	ContentType   string         `json:"contentType"`
	StrokeGroups  []*StrokeGroup `json:"strokeGroups"`
	Width         int32          `json:"width,omitempty"`
	Height        int32          `json:"height,omitempty"`
	XDPI          float32        `json:"xDPI,omitempty"`
	YDPI          float32        `json:"yDPI,omitempty"`
}

type Configuration struct {
	Lang string `json:"lang,omitempty"`
}

type StrokeGroup struct {
	Strokes []*Stroke `json:"strokes"`
}

// Stroke holds one stroke as parallel coordinate and time arrays.
type Stroke struct {
	X           []float32 `json:"x"`
	Y           []float32 `json:"y"`
	T           []int64   `json:"t,omitempty"`
	PointerType string    `json:"pointerType,omitempty"`
}

// jiix is the subset of the JSON interchange format holding recognized
// text.
type jiix struct {
	Label string `json:"label"`
	Text  string `json:"text"`
	Words []struct {
		Label string `json:"label"`
	} `json:"words"`
	Chars []struct {
		Label string `json:"label"`
	} `json:"chars"`
}
