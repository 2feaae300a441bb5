package data

// Vocabularies accepted from API clients. The preprocessor learns its own
// categories from training data; these lists only gate incoming requests.
var (
	YesNo = []string{"Yes", "No"}

	RestTypes = []string{
		"Quick Bites", "Casual Dining", "Cafe", "Other Rest Type", "Delivery",
		"Dessert Parlor", "Takeaway, Delivery", "Casual Dining, Bar", "Bakery",
		"Beverage Shop", "Bar", "Food Court", "Sweet Shop", "Bar, Casual Dining",
		"Lounge", "Pub", "Fine Dining", "Casual Dining, Cafe",
		"Beverage Shop, Quick Bites", "Bakery, Quick Bites", "Mess",
		"Pub, Casual Dining",
	}

	Types = []string{
		"Delivery", "Dine-out", "Desserts", "Cafes", "Drinks & nightlife",
		"Buffet", "Pubs and bars",
	}

	Cities = []string{
		"Banashankari", "Bannerghatta Road", "Basavanagudi", "Bellandur",
		"Brigade Road", "Brookefield", "BTM", "Church Street", "Electronic City",
		"Frazer Town", "HSR", "Indiranagar", "Jayanagar", "JP Nagar",
		"Kalyan Nagar", "Kammanahalli", "Koramangala 4th Block",
		"Koramangala 5th Block", "Koramangala 6th Block", "Koramangala 7th Block",
		"Lavelle Road", "Malleshwaram", "Marathahalli", "MG Road", "New BEL Road",
		"Old Airport Road", "Rajajinagar", "Residency Road", "Sarjapur Road",
		"Whitefield",
	}
)

// Contains reports whether v is one of vocab.
func Contains(vocab []string, v string) bool {
	for _, s := range vocab {
		if s == v {
			return true
		}
	}
	return false
}
