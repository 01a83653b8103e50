package x11

import (
	"github.com/jezek/xgb/randr"
	"github.com/jezek/xgb/xproto"
)

// DetectOutputs queries RandR for the geometry of every active CRTC.
// A missing extension is returned as an error; callers fall back to the
// root geometry only when it reports no active CRTC.
func (c *Conn) DetectOutputs() ([]xproto.Rectangle, error) {
	if err := randr.Init(c.conn); err != nil {
		return nil, err
	}
	resources, err := randr.GetScreenResources(c.conn, c.root).Reply()
	if err != nil {
		return nil, err
	}
	var rects []xproto.Rectangle
	for _, crtc := range resources.Crtcs {
		info, err := randr.GetCrtcInfo(c.conn, crtc, 0).Reply()
		if err != nil {
			continue
		}
		if info.Width == 0 || info.Height == 0 || len(info.Outputs) == 0 {
			continue
		}
		rects = append(rects, xproto.Rectangle{
			X:      info.X,
			Y:      info.Y,
			Width:  info.Width,
			Height: info.Height,
		})
	}
	return rects, nil
}
