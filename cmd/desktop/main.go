package main

import (
	"bytes"
	"image/color"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"

	"lsc8/pkg/asm"
	"lsc8/pkg/config"
	"lsc8/pkg/listing"
	"lsc8/pkg/utils"
)

const (
	screenWidth  = 512
	screenHeight = 384
	lineHeight   = 16
	visibleRows  = screenHeight/lineHeight - 2
)

var (
	textColor   = color.RGBA{190, 190, 190, 255}
	cursorColor = color.RGBA{0, 220, 90, 255}
)

type Game struct {
	view  *viewer
	title string
}

func (g *Game) Update() error {
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyDown):
		g.view.move(1)
	case inpututil.IsKeyJustPressed(ebiten.KeyUp):
		g.view.move(-1)
	case inpututil.IsKeyJustPressed(ebiten.KeyPageDown):
		g.view.move(visibleRows)
	case inpututil.IsKeyJustPressed(ebiten.KeyPageUp):
		g.view.move(-visibleRows)
	case inpututil.IsKeyJustPressed(ebiten.KeyHome):
		g.view.move(-g.view.totalRows())
	case inpututil.IsKeyJustPressed(ebiten.KeyEnd):
		g.view.move(g.view.totalRows())
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	face := basicfont.Face7x13
	for i, row := range g.view.visible() {
		c := textColor
		if g.view.top+i == g.view.cursor {
			c = cursorColor
		}
		text.Draw(screen, row, face, 8, (i+1)*lineHeight, c)
	}
	ebitenutil.DebugPrintAt(screen, g.title+"  "+g.view.status(), 8, screenHeight-lineHeight)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return screenWidth, screenHeight
}

// load assembles an .asm file, or reads an already assembled listing.
func load(path string, cfg config.Config) (image []byte, sourceMap map[uint16]int, origin int, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, 0, err
	}
	if strings.EqualFold(filepath.Ext(path), ".txt") {
		image, err = listing.Parse(bytes.NewReader(data))
		return image, nil, 0, err
	}

	a := asm.NewAssembler(asm.WithStrict(cfg.Strict))
	image, sourceMap, err = a.Assemble(string(data))
	return image, sourceMap, a.Origin(), err
}

func main() {
	if len(os.Args) < 2 {
		log.Fatalf("usage: %s <file.asm|file.txt>", filepath.Base(os.Args[0]))
	}

	fullPath, baseDir, err := utils.GetPathInfo(os.Args[1])
	if err != nil {
		log.Fatalf("Failed to resolve path: %v", err)
	}
	cfg, err := config.Load(filepath.Join(baseDir, config.FileName))
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	image, sourceMap, origin, err := load(fullPath, cfg)
	if err != nil {
		log.Fatalf("Failed to load %s: %v", fullPath, err)
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(screenWidth*2, screenHeight*2)
	ebiten.SetWindowTitle(filepath.Base(fullPath) + " - " + cfg.Header)

	game := &Game{
		view:  newViewer(image, sourceMap, origin, visibleRows),
		title: filepath.Base(fullPath),
	}
	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
