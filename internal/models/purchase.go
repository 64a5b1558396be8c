package models

// PurchaseRecord is one row of the historical purchase log.
type PurchaseRecord struct {
	ProductName string `db:"product_name" json:"productName"`
	Category    string `db:"category" json:"category"`
}

// ProductCount pairs a product name with how often it was purchased.
type ProductCount struct {
	Name  string `json:"product"`
	Count int    `json:"sales"`
}
