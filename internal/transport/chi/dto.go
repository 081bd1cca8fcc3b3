package chi

import "github.com/tilemart/tilequery/internal/domain"

// productDTO is the wire representation of a product. Price is a pointer so
// an unknown price serializes as null, never as 0.
type productDTO struct {
	Name         string   `json:"name"`
	Price        *float64 `json:"price"`
	PriceUnit    string   `json:"price_unit,omitempty"`
	Size         string   `json:"size"`
	Material     string   `json:"material,omitempty"`
	Finish       string   `json:"finish,omitempty"`
	Applications string   `json:"applications,omitempty"`
	Category     string   `json:"category"`
	URL          string   `json:"url,omitempty"`
	ImageURL     string   `json:"image_url,omitempty"`
}

// rankedDTO augments a product with its relevance score.
type rankedDTO struct {
	productDTO
	Score float64 `json:"score"`
}

func productToDTO(p domain.Product) productDTO {
	dto := productDTO{
		Name:         p.Name,
		PriceUnit:    p.PriceUnit,
		Size:         p.Size,
		Material:     p.Material,
		Finish:       p.Finish,
		Applications: p.Applications,
		Category:     p.Category,
		URL:          p.URL,
		ImageURL:     p.ImageURL,
	}
	if p.PriceKnown {
		price := p.Price
		dto.Price = &price
	}
	return dto
}

func rankedToDTO(tiles []domain.RankedTile) []rankedDTO {
	out := make([]rankedDTO, len(tiles))
	for i, t := range tiles {
		out[i] = rankedDTO{productDTO: productToDTO(t.Product), Score: t.Score}
	}
	return out
}
