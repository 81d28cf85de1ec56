// Package gui is the desktop host: a resizable raylib window that replays
// each frame's draw commands and feeds the mouse back to the session.
package gui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/jakecoffman/cp"
	"github.com/san-kum/kinelab/internal/demo"
	"github.com/san-kum/kinelab/internal/lab"
	"github.com/san-kum/kinelab/internal/params"
	"github.com/san-kum/kinelab/internal/scene"
)

var (
	ColAccent  = rl.NewColor(180, 180, 180, 255)
	ColSelect  = rl.NewColor(255, 255, 255, 255)
	ColText    = rl.NewColor(140, 140, 140, 255)
	ColTextDim = rl.NewColor(60, 60, 60, 255)
	ColPanel   = rl.NewColor(0, 0, 0, 140)
)

const telemetryCapacity = 300

// Session is everything the window needs to run one demo.
type Session struct {
	Def     demo.Definition
	Store   *params.Store
	Session *lab.Session
}

// Factory builds a session for a named demo.
type Factory func(name string) (Session, error)

type App struct {
	names   []string
	factory Factory
	font    rl.Font

	cur      Session
	loaded   bool
	inMenu   bool
	running  bool
	stepOnce bool
	menuSel  int
	paramSel int
	err      error

	last      lab.Output
	telemetry []float64
}

func initWindow(w, h, fps int) {
	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	rl.InitWindow(int32(w), int32(h), "kinelab")
	rl.SetTargetFPS(int32(fps))
	rl.SetExitKey(0)
}

// loadFont loads Liberation Mono with the glyphs the overlays need, falling
// back to raylib's default font.
func loadFont() rl.Font {
	glyphs := make([]rune, 0, 100)
	for r := rune(32); r < 127; r++ {
		glyphs = append(glyphs, r)
	}
	glyphs = append(glyphs, '²')

	font := rl.LoadFontEx("/usr/share/fonts/liberation/LiberationMono-Regular.ttf", 32, glyphs)
	if font.Texture.ID == 0 {
		return rl.GetFontDefault()
	}
	rl.SetTextureFilter(font.Texture, rl.FilterBilinear)
	return font
}

func NewApp(reg *demo.Registry, factory Factory) *App {
	return &App{
		names:     reg.Names(),
		factory:   factory,
		inMenu:    true,
		telemetry: make([]float64, 0, telemetryCapacity),
	}
}

// Run opens the window and blocks until it is closed. An empty start name
// opens the demo menu.
func Run(a *App, start string, width, height, fps int) error {
	initWindow(width, height, fps)
	defer rl.CloseWindow()
	a.font = loadFont()

	if start != "" {
		if err := a.load(start); err != nil {
			return err
		}
	}
	for !rl.WindowShouldClose() {
		if quit := a.Update(); quit {
			break
		}
		a.Draw()
	}
	return nil
}

func (a *App) load(name string) error {
	s, err := a.factory(name)
	if err != nil {
		return fmt.Errorf("gui: %w", err)
	}
	a.cur, a.loaded = s, true
	a.inMenu, a.running = false, true
	a.paramSel = 0
	a.last = lab.Output{}
	a.telemetry = a.telemetry[:0]
	return nil
}

func (a *App) viewport() scene.Viewport {
	return scene.Viewport{Width: float64(rl.GetScreenWidth()), Height: float64(rl.GetScreenHeight())}
}

// Update reads input and advances the session one frame. It reports whether
// the user asked to quit.
func (a *App) Update() bool {
	if rl.IsKeyPressed(rl.KeyQ) {
		return true
	}

	if a.inMenu {
		a.menuKeys()
		return false
	}

	switch {
	case rl.IsKeyPressed(rl.KeyEscape):
		a.inMenu = true
		return false
	case rl.IsKeyPressed(rl.KeySpace):
		a.running = !a.running
	case rl.IsKeyPressed(rl.KeyN):
		a.stepOnce = true
	case rl.IsKeyPressed(rl.KeyR):
		if rl.IsKeyDown(rl.KeyLeftShift) {
			a.cur.Store.Reset()
		}
		a.cur.Session.Reset()
	case rl.IsKeyPressed(rl.KeyTab):
		if n := len(a.cur.Def.Sliders); n > 0 {
			a.paramSel = (a.paramSel + 1) % n
		}
	case rl.IsKeyPressed(rl.KeyUp), rl.IsKeyPressed(rl.KeyRight):
		a.nudge(1)
	case rl.IsKeyPressed(rl.KeyDown), rl.IsKeyPressed(rl.KeyLeft):
		a.nudge(-1)
	}

	if a.running || a.stepOnce {
		a.advance()
		a.stepOnce = false
	}
	return false
}

func (a *App) menuKeys() {
	switch {
	case rl.IsKeyPressed(rl.KeyDown), rl.IsKeyPressed(rl.KeyJ):
		a.menuSel = (a.menuSel + 1) % len(a.names)
	case rl.IsKeyPressed(rl.KeyUp), rl.IsKeyPressed(rl.KeyK):
		a.menuSel = (a.menuSel + len(a.names) - 1) % len(a.names)
	case rl.IsKeyPressed(rl.KeyEscape):
		if a.loaded {
			a.inMenu = false
		}
	case rl.IsKeyPressed(rl.KeyEnter):
		a.err = a.load(a.names[a.menuSel])
	}
}

func (a *App) nudge(steps int) {
	if len(a.cur.Def.Sliders) == 0 {
		return
	}
	_, _ = a.cur.Store.Nudge(a.cur.Def.Sliders[a.paramSel].Key, steps)
}

func (a *App) advance() {
	mouse := rl.GetMousePosition()
	out := a.cur.Session.Advance(lab.Input{
		Params: a.cur.Store.Snapshot(),
		Pointer: lab.Pointer{
			Pos:  cp.Vector{X: float64(mouse.X), Y: float64(mouse.Y)},
			Down: rl.IsMouseButtonDown(rl.MouseButtonLeft),
		},
		Viewport: a.viewport(),
	})
	a.last = out
	if out.Rebuilt {
		a.telemetry = a.telemetry[:0]
	}
	if out.Readout.Tracking {
		a.telemetry = append(a.telemetry, out.Readout.Speed)
	} else {
		a.telemetry = append(a.telemetry, float64(a.cur.Session.Spawner().Live()))
	}
	if len(a.telemetry) > telemetryCapacity {
		a.telemetry = a.telemetry[1:]
	}
}

func (a *App) Draw() {
	rl.BeginDrawing()
	if a.inMenu {
		rl.ClearBackground(rl.NewColor(10, 10, 10, 255))
		a.drawMenu()
	} else {
		a.drawCmds(a.last.Cmds)
		a.DrawHUD()
	}
	rl.EndDrawing()
}

func (a *App) DrawHUD() {
	w, h := rl.GetScreenWidth(), rl.GetScreenHeight()

	status, col := "RUNNING", ColSelect
	if !a.running {
		status, col = "PAUSED", ColTextDim
	}
	a.drawText(status, w-120, h-60, 16, col)
	a.drawText(fmt.Sprintf("%d FPS", int32(rl.GetFPS())), 30, h-30, 14, ColTextDim)

	y := h - 60 - 24*len(a.cur.Def.Sliders)
	rl.DrawRectangle(20, int32(y-10), 300, int32(24*len(a.cur.Def.Sliders)+10), ColPanel)
	snap := a.cur.Store.Snapshot()
	for i, sl := range a.cur.Def.Sliders {
		line := fmt.Sprintf("  %-14s %8.3f", sl.Label, snap[sl.Key])
		c := ColText
		if i == a.paramSel {
			line, c = "> "+line[2:], ColSelect
		}
		a.drawText(line, 30, y+24*i, 16, c)
	}

	a.DrawTelemetry(340, h-90, 300, 60)
	a.drawText("[SPACE] PAUSE  [N] STEP  [R] RESET  [TAB/ARROWS] PARAMS  [ESC] MENU  [Q] QUIT", 340, h-22, 12, ColTextDim)
}

func (a *App) DrawTelemetry(x, y, width, height int) {
	if len(a.telemetry) < 2 {
		return
	}

	minVal, maxVal := a.telemetry[0], a.telemetry[0]
	for _, v := range a.telemetry {
		minVal, maxVal = min(minVal, v), max(maxVal, v)
	}
	if maxVal == minVal {
		maxVal = minVal + 1
	}

	points := make([]rl.Vector2, len(a.telemetry))
	for i, val := range a.telemetry {
		px := float32(x) + float32(i)/float32(telemetryCapacity)*float32(width)
		norm := (val - minVal) / (maxVal - minVal)
		py := float32(y+height) - float32(norm)*float32(height)
		points[i] = rl.NewVector2(px, py)
	}

	rl.DrawLineStrip(points, ColAccent)
	a.drawText(fmt.Sprintf("%.1f", a.telemetry[len(a.telemetry)-1]), x+width+10, y+height-10, 14, ColText)
}

func (a *App) drawMenu() {
	a.drawText("kinelab", 50, 50, 40, ColSelect)
	a.drawText("Select Demo", 50, 100, 16, ColTextDim)

	y := 160
	for i, name := range a.names {
		if i == a.menuSel {
			a.drawText("> "+name, 50, y, 20, ColSelect)
		} else {
			a.drawText("  "+name, 50, y, 20, ColText)
		}
		y += 28
	}
	if a.err != nil {
		a.drawText(a.err.Error(), 50, y+20, 16, rl.Red)
	}

	a.drawText("ARROWS: NAVIGATE  ENTER: SELECT  Q: QUIT", 50, rl.GetScreenHeight()-40, 14, ColTextDim)
}

func (a *App) drawText(text string, x, y int, size int, color rl.Color) {
	rl.DrawTextEx(a.font, text, rl.NewVector2(float32(x), float32(y)), float32(size), 1, color)
}
