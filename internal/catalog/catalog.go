package catalog

import (
	"github.com/shopspring/decimal"

	"github.com/suvai/freshmart-backend/pkg/enums"
)

// Product is one purchasable catalog entry. The catalog is immutable for the
// lifetime of the process.
type Product struct {
	ID          int                   `json:"id"`
	Name        string                `json:"name"`
	Category    enums.ProductCategory `json:"category"`
	Price       decimal.Decimal       `json:"price"`
	Icon        string                `json:"icon"`
	Description string                `json:"description"`
}

// Catalog is the static product list plus its lookup helpers.
type Catalog []Product

// ByID returns the product with the given id, if present.
func (c Catalog) ByID(id int) (Product, bool) {
	for _, p := range c {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}

func price(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

// Default returns the demo storefront catalog.
func Default() Catalog {
	return Catalog{
		{ID: 1, Name: "Fresh Apples", Category: enums.ProductCategoryFruits, Price: price("3.99"), Icon: "🍎", Description: "Crisp and sweet red apples"},
		{ID: 2, Name: "Bananas", Category: enums.ProductCategoryFruits, Price: price("2.49"), Icon: "🍌", Description: "Ripe yellow bananas"},
		{ID: 3, Name: "Orange Bundle", Category: enums.ProductCategoryFruits, Price: price("4.99"), Icon: "🍊", Description: "Fresh juicy oranges"},
		{ID: 4, Name: "Strawberries", Category: enums.ProductCategoryFruits, Price: price("5.99"), Icon: "🍓", Description: "Sweet strawberries"},
		{ID: 5, Name: "Grapes", Category: enums.ProductCategoryFruits, Price: price("6.99"), Icon: "🍇", Description: "Fresh green grapes"},
		{ID: 6, Name: "Pineapple", Category: enums.ProductCategoryFruits, Price: price("4.49"), Icon: "🍍", Description: "Tropical pineapple"},

		{ID: 7, Name: "Fresh Carrots", Category: enums.ProductCategoryVegetables, Price: price("2.99"), Icon: "🥕", Description: "Organic carrots"},
		{ID: 8, Name: "Broccoli", Category: enums.ProductCategoryVegetables, Price: price("3.49"), Icon: "🥦", Description: "Fresh broccoli crowns"},
		{ID: 9, Name: "Bell Peppers", Category: enums.ProductCategoryVegetables, Price: price("4.99"), Icon: "🫑", Description: "Colorful bell peppers"},
		{ID: 10, Name: "Tomatoes", Category: enums.ProductCategoryVegetables, Price: price("3.99"), Icon: "🍅", Description: "Ripe red tomatoes"},
		{ID: 11, Name: "Lettuce", Category: enums.ProductCategoryVegetables, Price: price("2.49"), Icon: "🥬", Description: "Fresh lettuce leaves"},
		{ID: 12, Name: "Onions", Category: enums.ProductCategoryVegetables, Price: price("1.99"), Icon: "🧅", Description: "Yellow onions"},

		{ID: 13, Name: "Whole Milk", Category: enums.ProductCategoryDairy, Price: price("3.49"), Icon: "🥛", Description: "Fresh whole milk"},
		{ID: 14, Name: "Cheddar Cheese", Category: enums.ProductCategoryDairy, Price: price("5.99"), Icon: "🧀", Description: "Sharp cheddar cheese"},
		{ID: 15, Name: "Greek Yogurt", Category: enums.ProductCategoryDairy, Price: price("4.99"), Icon: "🥛", Description: "Creamy Greek yogurt"},
		{ID: 16, Name: "Butter", Category: enums.ProductCategoryDairy, Price: price("4.49"), Icon: "🧈", Description: "Unsalted butter"},
		{ID: 17, Name: "Eggs", Category: enums.ProductCategoryDairy, Price: price("3.99"), Icon: "🥚", Description: "Farm fresh eggs"},

		{ID: 18, Name: "Mixed Nuts", Category: enums.ProductCategorySnacks, Price: price("7.99"), Icon: "🥜", Description: "Assorted mixed nuts"},
		{ID: 19, Name: "Potato Chips", Category: enums.ProductCategorySnacks, Price: price("3.49"), Icon: "🍟", Description: "Crispy potato chips"},
		{ID: 20, Name: "Crackers", Category: enums.ProductCategorySnacks, Price: price("2.99"), Icon: "🍘", Description: "Whole grain crackers"},
		{ID: 21, Name: "Granola Bars", Category: enums.ProductCategorySnacks, Price: price("4.99"), Icon: "🍫", Description: "Healthy granola bars"},

		{ID: 22, Name: "Orange Juice", Category: enums.ProductCategoryBeverages, Price: price("4.49"), Icon: "🧃", Description: "Fresh orange juice"},
		{ID: 23, Name: "Coffee Beans", Category: enums.ProductCategoryBeverages, Price: price("12.99"), Icon: "☕", Description: "Premium coffee beans"},
		{ID: 24, Name: "Green Tea", Category: enums.ProductCategoryBeverages, Price: price("6.99"), Icon: "🍵", Description: "Organic green tea"},
		{ID: 25, Name: "Sparkling Water", Category: enums.ProductCategoryBeverages, Price: price("3.99"), Icon: "💧", Description: "Sparkling mineral water"},

		{ID: 26, Name: "Whole Wheat Bread", Category: enums.ProductCategoryBakery, Price: price("2.99"), Icon: "🍞", Description: "Fresh whole wheat bread"},
		{ID: 27, Name: "Croissants", Category: enums.ProductCategoryBakery, Price: price("5.99"), Icon: "🥐", Description: "Buttery croissants"},
		{ID: 28, Name: "Bagels", Category: enums.ProductCategoryBakery, Price: price("4.49"), Icon: "🥯", Description: "Fresh bagels"},
		{ID: 29, Name: "Muffins", Category: enums.ProductCategoryBakery, Price: price("6.99"), Icon: "🧁", Description: "Blueberry muffins"},
	}
}
