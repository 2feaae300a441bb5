package data

import "strconv"

// Column names of the restaurant table.
const (
	ColOnlineOrder = "online_order"
	ColBookTable   = "book_table"
	ColVotes       = "votes"
	ColRestType    = "rest_type"
	ColCost        = "cost"
	ColType        = "type"
	ColCity        = "city"

	TargetColumn = "rate"
)

// FeatureColumns is the column order every feature frame is built with.
var FeatureColumns = []string{
	ColOnlineOrder,
	ColBookTable,
	ColVotes,
	ColRestType,
	ColCost,
	ColType,
	ColCity,
}

// Record is one restaurant observation without its rating.
type Record struct {
	OnlineOrder string  `json:"online_order"`
	BookTable   string  `json:"book_table"`
	Votes       int     `json:"votes"`
	RestType    string  `json:"rest_type"`
	Cost        float64 `json:"cost"`
	Type        string  `json:"type"`
	City        string  `json:"city"`
}

// Values returns the record's fields as strings in FeatureColumns order.
func (r Record) Values() []string {
	return []string{
		r.OnlineOrder,
		r.BookTable,
		strconv.Itoa(r.Votes),
		r.RestType,
		strconv.FormatFloat(r.Cost, 'f', -1, 64),
		r.Type,
		r.City,
	}
}
