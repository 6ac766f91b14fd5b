package catalog

import (
	"github.com/angelmondragon/atelier-storefront/internal/customization"
	"github.com/angelmondragon/atelier-storefront/pkg/db/models"
)

func productFromModel(m models.Product) customization.Product {
	return customization.Product{
		ID:           m.ID,
		Name:         m.Name,
		Description:  m.Description,
		Price:        m.Price,
		Image:        m.Image,
		Category:     m.Category,
		Material:     m.Material,
		Customizable: m.Customizable,
	}
}

func productsFromModels(rows []models.Product) []customization.Product {
	out := make([]customization.Product, 0, len(rows))
	for _, row := range rows {
		out = append(out, productFromModel(row))
	}
	return out
}

func optionFromModel(m models.CustomizationOption) customization.Option {
	values := make([]customization.OptionValue, 0, len(m.Values))
	for _, v := range m.Values {
		values = append(values, customization.OptionValue{
			Value:         v.Value,
			DisplayName:   v.DisplayName,
			PriceModifier: v.PriceModifier,
			Description:   v.Description,
		})
	}
	return customization.Option{
		ID:          m.OptionID,
		DisplayName: m.DisplayName,
		Type:        m.OptionType,
		Required:    m.Required,
		Values:      values,
		Rules:       m.ValidationRules,
		Order:       m.SortOrder,
		HelpText:    m.HelpText,
	}
}
