package main

import (
	"fmt"
	"image/color"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/deckhandapp/deckhand/internal/device"
	"github.com/deckhandapp/deckhand/internal/logger"
	"github.com/deckhandapp/deckhand/internal/profile"
)

func (a *deckApp) setupUI() {
	header := widget.NewLabelWithStyle(
		fmt.Sprintf("%s — %s", a.dev.ModelName(), a.dev.Serial()),
		fyne.TextAlignCenter,
		fyne.TextStyle{Bold: true},
	)
	settingsBtn := widget.NewButton("Settings", a.openSettings)

	a.window.SetContent(container.NewBorder(
		header,
		settingsBtn,
		nil, nil,
		container.NewPadded(a.preview.grid),
	))
}

func (a *deckApp) openSettings() {
	trayCheck := widget.NewCheck("Show tray icon", func(enabled bool) {
		a.st.SetTrayIconEnabled(enabled)
		if enabled {
			if a.trayMgr != nil {
				a.trayMgr.Start()
			}
		} else if a.trayMgr != nil {
			a.trayMgr.Stop()
		}
	})
	trayCheck.SetChecked(a.st.TrayIconEnabled())

	brightness := widget.NewSlider(0, 100)
	brightness.Step = 5
	brightness.SetValue(float64(a.st.Brightness()))
	brightness.OnChangeEnded = func(v float64) {
		a.st.SetBrightness(int(v))
		if err := a.dev.SetBrightness(uint8(v)); err != nil {
			logger.Warn("setting brightness", "error", err)
		}
	}

	items := []*widget.FormItem{
		widget.NewFormItem("Tray", trayCheck),
		widget.NewFormItem("Brightness", brightness),
	}

	if a.profiles != nil {
		names, err := a.profiles.List()
		if err != nil {
			logger.Warn("listing profiles", "error", err)
		}
		if len(names) > 0 {
			sel := widget.NewSelect(names, func(name string) {
				p, err := a.profiles.Load(name)
				if err != nil {
					logger.Warn("loading profile", "profile", name, "error", err)
					return
				}
				a.st.SetLastProfile(name)
				a.applyProfile(p)
			})
			sel.SetSelected(a.st.LastProfile())
			items = append(items, widget.NewFormItem("Profile", sel))
		}
	}

	dialog.ShowForm("Settings", "Close", "", items, func(bool) {}, a.window)
}

// defaultProfile numbers every key so a fresh install shows something.
func defaultProfile(cols, rows uint8) *profile.Profile {
	p := &profile.Profile{Name: "default"}
	for i, key := range device.Keys(cols, rows) {
		kc := profile.KeyConfig{
			Col:   key.Col,
			Row:   key.Row,
			Label: "Key " + strconv.Itoa(i+1),
		}
		if i == 0 {
			kc.Action = "show-window"
		}
		p.Keys = append(p.Keys, kc)
	}
	return p
}

// parseColor reads a #rrggbb profile color; anything unparsable falls
// back to the renderer's default fill.
func parseColor(s string) color.NRGBA {
	if len(s) != 7 || s[0] != '#' {
		return color.NRGBA{}
	}
	v, err := strconv.ParseUint(s[1:], 16, 32)
	if err != nil {
		return color.NRGBA{}
	}
	return color.NRGBA{
		R: uint8(v >> 16),
		G: uint8(v >> 8),
		B: uint8(v),
		A: 0xff,
	}
}
