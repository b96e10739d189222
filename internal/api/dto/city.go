package dto

type CityResponse struct {
	Capital   string  `json:"capital"`
	Longitude float64 `json:"longitude"`
	Latitude  float64 `json:"latitude"`
}

type ListCitiesResponse struct {
	Cities []CityResponse `json:"cities"`
}

type ReloadCatalogResponse struct {
	Entries int `json:"entries"`
}
