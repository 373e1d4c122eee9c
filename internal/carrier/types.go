package carrier

// Province is an administrative province known to the carrier.
type Province struct {
	ProvinceID   int    `json:"ProvinceID"`
	ProvinceName string `json:"ProvinceName"`
}

// District is an administrative district within a province.
type District struct {
	DistrictID   int    `json:"DistrictID"`
	ProvinceID   int    `json:"ProvinceID"`
	DistrictName string `json:"DistrictName"`
}

// Ward is an administrative ward within a district. The carrier keys wards by
// string code, unlike provinces and districts.
type Ward struct {
	WardCode   string `json:"WardCode"`
	DistrictID int    `json:"DistrictID"`
	WardName   string `json:"WardName"`
}

// FeeRequest asks the carrier to price a package between two addresses.
type FeeRequest struct {
	FromDistrictID int    `json:"from_district_id"`
	ToDistrictID   int    `json:"to_district_id"`
	ToWardCode     string `json:"to_ward_code"`
	WeightGrams    int    `json:"weight"`
	LengthCm       int    `json:"length"`
	WidthCm        int    `json:"width"`
	HeightCm       int    `json:"height"`
}

// FeeResponse is the carrier's price quote in minor units.
type FeeResponse struct {
	Total        int64 `json:"total"`
	ServiceFee   int64 `json:"service_fee"`
	InsuranceFee int64 `json:"insurance_fee"`
}

// OrderItem is one line of a carrier order.
type OrderItem struct {
	Name     string `json:"name"`
	Code     string `json:"code"`
	Quantity int    `json:"quantity"`
}

// OrderRequest creates or previews one carrier order for one package.
type OrderRequest struct {
	FromName       string      `json:"from_name"`
	FromPhone      string      `json:"from_phone"`
	FromDistrictID int         `json:"from_district_id"`
	FromWardCode   string      `json:"from_ward_code"`
	FromAddress    string      `json:"from_address"`
	ToName         string      `json:"to_name"`
	ToPhone        string      `json:"to_phone"`
	ToDistrictID   int         `json:"to_district_id"`
	ToWardCode     string      `json:"to_ward_code"`
	ToAddress      string      `json:"to_address"`
	CODAmount      int64       `json:"cod_amount"`
	WeightGrams    int         `json:"weight"`
	LengthCm       int         `json:"length"`
	WidthCm        int         `json:"width"`
	HeightCm       int         `json:"height"`
	Note           string      `json:"note,omitempty"`
	Items          []OrderItem `json:"items"`
}

// OrderResponse is the carrier's reply to a create or preview call.
type OrderResponse struct {
	OrderCode            string `json:"order_code"`
	TotalFee             int64  `json:"total_fee"`
	ExpectedDeliveryTime string `json:"expected_delivery_time"`
}

// TrackResponse is the carrier's current view of an order.
type TrackResponse struct {
	OrderCode string `json:"order_code"`
	Status    string `json:"status"`
	UpdatedAt string `json:"updated_date"`
}
