package models

// AddRecordRequest is the flat form field set accepted by the record add
// endpoints. Orders additionally use Party and Advance; the other kinds
// ignore the fields that do not apply to them.
type AddRecordRequest struct {
	Date     string  `form:"date" binding:"required"`
	Product  string  `form:"product" binding:"required"`
	Unit     string  `form:"unit"`
	Quantity float64 `form:"quantity"`
	Price    float64 `form:"price"`
	Party    string  `form:"party"`
	Advance  float64 `form:"advance"`
}

// AddProductRequest registers a product; when Unit is "custom" the
// CustomUnit value is used instead.
type AddProductRequest struct {
	Name       string `form:"name" binding:"required"`
	Unit       string `form:"unit" binding:"required"`
	CustomUnit string `form:"custom_unit"`
}
