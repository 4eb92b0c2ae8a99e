package widgetscript

import (
	widgetcontroller "now-hiring/internal/widget/widget-controller"
)

type Config struct {
	Widget             *widgetcontroller.Config
	Positions          []string
	MaxAttachmentBytes int64
}
