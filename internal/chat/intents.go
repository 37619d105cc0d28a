package chat

import (
	"strings"

	"github.com/suvai/freshmart-backend/internal/catalog"
)

// Local keyword heuristics used when the chat backend is unreachable.
// Checked in priority order: product, location, help, then default.

var productKeywords = []string{"find", "search", "looking for", "need", "want", "buy", "get", "have"}

var locationKeywords = []string{"store", "shop", "location", "nearby", "near me", "directions", "address", "where"}

var helpKeywords = []string{"help", "what can you do", "how", "assist", "support"}

var defaultResponses = []string{
	"I'm here to help you find groceries and locate stores! Try asking me about specific products or nearby store locations.",
	"I can help you search for products or find stores near you. What are you looking for today?",
	"Let me help you with your grocery needs! You can ask me to find products or locate nearby stores.",
	"I'm your grocery assistant! Ask me about products like 'find fresh apples' or 'show nearby stores'.",
	"Hi there! I can help you find products in our store or locate nearby SUVAI stores. What would you like to know?",
	"Hello! I'm SuvaiBot. I can assist you with product searches and store locations. How can I help you today?",
}

const helpMessage = "I'm SuvaiBot, your grocery shopping assistant! 🤖\n\n" +
	"I can help you with:\n\n" +
	"🔍 Product Search: Ask me to find specific items like \"find apples\" or \"search for dairy products\"\n\n" +
	"📍 Store Locations: Find nearby stores with \"show nearby stores\" or \"where can I buy milk\"\n\n" +
	"🗺️ Directions: Get directions to stores that have your desired products\n\n" +
	"💡 Tips: I can suggest alternatives and help you discover new products!\n\n" +
	"Just ask me anything about groceries or stores!"

const apologyMessage = "I'm having trouble connecting to my backend service. Let me help you with local information! 🤖"

const noProductMatchMessage = "I couldn't find any products matching your search. Try searching for items like " +
	"'apples', 'milk', 'bread', or browse our categories: fruits, vegetables, dairy, snacks, beverages, and bakery."

func containsAny(message string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(message, keyword) {
			return true
		}
	}
	return false
}

// isProductQuery requires both an action keyword and a mention of a product
// or category; lone "find" or lone "apples" does not qualify.
func isProductQuery(message string, products catalog.Catalog) bool {
	if !containsAny(message, productKeywords) {
		return false
	}
	for _, p := range products {
		if strings.Contains(message, strings.ToLower(p.Name)) {
			return true
		}
	}
	for _, category := range catalogCategories() {
		if strings.Contains(message, category) {
			return true
		}
	}
	return false
}

func catalogCategories() []string {
	return []string{"fruits", "vegetables", "dairy", "snacks", "beverages", "bakery"}
}

func isLocationQuery(message string) bool {
	return containsAny(message, locationKeywords)
}

func isHelpQuery(message string) bool {
	return containsAny(message, helpKeywords)
}

// matchProducts finds catalog products referenced by the message: name or
// category mentioned, or the description containing the first word of the
// message longer than three characters.
func matchProducts(message string, products catalog.Catalog) []catalog.Product {
	searchWord := firstLongWord(message)

	matched := make([]catalog.Product, 0, len(products))
	for _, p := range products {
		if strings.Contains(message, strings.ToLower(p.Name)) ||
			strings.Contains(message, strings.ToLower(string(p.Category))) ||
			(searchWord != "" && strings.Contains(strings.ToLower(p.Description), searchWord)) {
			matched = append(matched, p)
		}
	}
	return matched
}

func firstLongWord(message string) string {
	for _, word := range strings.Fields(message) {
		if len(word) > 3 {
			return word
		}
	}
	return ""
}
