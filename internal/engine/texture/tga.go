package texture

import (
	"errors"
	"fmt"
	"image"
	"image/color"
)

// TGA image type constants.
const (
	TGATypeUncompressed = 2  // Uncompressed true-color
	TGATypeRLE          = 10 // RLE compressed true-color
)

const (
	tgaHeaderSize = 18
	tgaMaxPixels  = 8192 * 8192
	tgaRunLength  = 128
)

var (
	ErrTruncatedTGA = errors.New("truncated TGA data")
	ErrTGATooLarge  = errors.New("TGA image too large")
)

type tgaHeader struct {
	idLength     int
	colorMapType byte
	imageType    byte
	width        int
	height       int
	bpp          int
	topToBottom  bool
}

func parseTGAHeader(data []byte) (tgaHeader, error) {
	if len(data) < tgaHeaderSize {
		return tgaHeader{}, ErrTruncatedTGA
	}
	h := tgaHeader{
		idLength:     int(data[0]),
		colorMapType: data[1],
		imageType:    data[2],
		width:        int(data[12]) | int(data[13])<<8,
		height:       int(data[14]) | int(data[15])<<8,
		bpp:          int(data[16]),
		topToBottom:  data[17]&0x20 != 0,
	}
	if h.colorMapType != 0 {
		return h, fmt.Errorf("color-mapped TGA not supported")
	}
	if h.imageType != TGATypeUncompressed && h.imageType != TGATypeRLE {
		return h, fmt.Errorf("unsupported TGA type %d", h.imageType)
	}
	if h.bpp != 24 && h.bpp != 32 {
		return h, fmt.Errorf("unsupported TGA bit depth %d", h.bpp)
	}
	return h, nil
}

// DecodeTGA decodes uncompressed (type 2) and RLE (type 10) true-color TGA
// images. Bottom-up images are flipped so row 0 is the top row.
//
// The payload is checked against the header dimensions before the image is
// allocated: uncompressed data must hold every pixel, and RLE data must be
// long enough for the fewest packets that could cover the image.
func DecodeTGA(data []byte) (*image.RGBA, error) {
	h, err := parseTGAHeader(data)
	if err != nil {
		return nil, err
	}
	offset := tgaHeaderSize + h.idLength
	if offset > len(data) {
		return nil, ErrTruncatedTGA
	}

	total := h.width * h.height
	if total > tgaMaxPixels {
		return nil, fmt.Errorf("%w: %dx%d", ErrTGATooLarge, h.width, h.height)
	}
	bpp := h.bpp / 8
	payload := data[offset:]

	need := total * bpp
	if h.imageType == TGATypeRLE {
		need = (total + tgaRunLength - 1) / tgaRunLength * (1 + bpp)
	}
	if len(payload) < need {
		return nil, fmt.Errorf("%w: %dx%d needs at least %d bytes, have %d",
			ErrTruncatedTGA, h.width, h.height, need, len(payload))
	}

	px := &tgaPixels{
		img:   image.NewRGBA(image.Rect(0, 0, h.width, h.height)),
		data:  payload,
		bpp:   bpp,
		width: h.width,
		rows:  h.height,
		flip:  !h.topToBottom,
	}

	if h.imageType == TGATypeUncompressed {
		for i := 0; i < total; i++ {
			px.put(i, px.read())
		}
		return px.img, nil
	}

	if err := px.decodeRLE(); err != nil {
		return nil, err
	}
	return px.img, nil
}

type tgaPixels struct {
	img   *image.RGBA
	data  []byte
	pos   int
	bpp   int
	width int
	rows  int
	flip  bool
}

func (p *tgaPixels) remaining() bool {
	return p.pos+p.bpp <= len(p.data)
}

// read returns the BGR(A) pixel at the cursor and advances it.
func (p *tgaPixels) read() color.RGBA {
	d := p.data[p.pos:]
	c := color.RGBA{R: d[2], G: d[1], B: d[0], A: 255}
	if p.bpp == 4 {
		c.A = d[3]
	}
	p.pos += p.bpp
	return c
}

func (p *tgaPixels) put(i int, c color.RGBA) {
	x, y := i%p.width, i/p.width
	if p.flip {
		y = p.rows - 1 - y
	}
	p.img.SetRGBA(x, y, c)
}

// decodeRLE expands run-length packets until every pixel is written.
func (p *tgaPixels) decodeRLE() error {
	total := p.width * p.rows
	i := 0
	for i < total {
		if p.pos >= len(p.data) {
			return fmt.Errorf("%w: RLE stream ends at pixel %d of %d", ErrTruncatedTGA, i, total)
		}
		packet := p.data[p.pos]
		p.pos++
		count := int(packet&0x7F) + 1

		if packet&0x80 != 0 {
			if !p.remaining() {
				return fmt.Errorf("%w: run packet at pixel %d", ErrTruncatedTGA, i)
			}
			c := p.read()
			for n := 0; n < count && i < total; n++ {
				p.put(i, c)
				i++
			}
			continue
		}

		for n := 0; n < count && i < total; n++ {
			if !p.remaining() {
				return fmt.Errorf("%w: raw packet at pixel %d", ErrTruncatedTGA, i)
			}
			p.put(i, p.read())
			i++
		}
	}
	return nil
}
