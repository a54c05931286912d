package canvas

// NewSampleDocument builds a small demo canvas used to seed the playground
// gallery: a few shapes, a text label, and an empty frame.
func NewSampleDocument() *Document {
	doc := NewDocument(1280, 720)
	doc.Background = "#1a1a2e"

	rect := NewRect(120, 90, 240, 160)
	rect.Name = "Backdrop"
	rect.Fill = "#e94560"

	circle := NewCircle(560, 220, 70)
	circle.Name = "Accent"
	circle.Fill = "#0f3460"
	circle.Stroke = "#e94560"
	circle.StrokeWidth = 2

	line := NewLine(120, 320, []float64{0, 0, 420, 0})
	line.Name = "Divider"
	line.Stroke = "#ffffff"
	line.StrokeWidth = 3

	title := NewText(120, 360, "Welcome to the gallery", 28)
	title.Name = "Title"
	title.FontFamily = "sans-serif"
	title.Fill = "#ffffff"

	frame := NewFrame(720, 120, 320, 240)
	frame.Name = "Photo frame"
	frame.Stroke = "#53354a"
	frame.StrokeWidth = 4

	doc.Insert(rect)
	doc.Insert(circle)
	doc.Insert(line)
	doc.Insert(title)
	doc.Insert(frame)
	return doc
}
