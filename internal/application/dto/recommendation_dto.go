package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// TopProductDTO producto frecuente del cliente.
type TopProductDTO struct {
	ProductDTO
	PurchaseCount int             `json:"purchase_count"`
	TotalQuantity int             `json:"total_quantity"`
	TotalSpent    decimal.Decimal `json:"total_spent"`
	LastPurchased time.Time       `json:"last_purchased"`
}

// CategoryCountDTO categoría y número de líneas compradas.
type CategoryCountDTO struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// BrandCountDTO marca y número de líneas compradas.
type BrandCountDTO struct {
	Brand string `json:"brand"`
	Count int    `json:"count"`
}

// RecommendationInsightsDTO métricas del cliente que acompañan a las recomendaciones.
type RecommendationInsightsDTO struct {
	AvgOrderValue      decimal.Decimal    `json:"avg_order_value"`
	DaysSinceLastVisit *int               `json:"days_since_last_visit"`
	TopProducts        []TopProductDTO    `json:"top_products"`
	FavoriteCategories []CategoryCountDTO `json:"favorite_categories"`
	FavoriteBrands     []BrandCountDTO    `json:"favorite_brands"`
}

// RecommendationReasonsDTO candidatos aportados por cada estrategia antes de deduplicar.
type RecommendationReasonsDTO struct {
	Replenishment    int `json:"replenishment"`
	NewInFavorites   int `json:"new_in_favorites"`
	SimilarCustomers int `json:"similar_customers"`
}

// CustomerRecommendationsDTO respuesta de GET /api/customers/:id/recommendations.
type CustomerRecommendationsDTO struct {
	Customer              CustomerSummaryDTO        `json:"customer"`
	Insights              RecommendationInsightsDTO `json:"insights"`
	Recommendations       []ProductDTO              `json:"recommendations"`
	RecommendationReasons RecommendationReasonsDTO  `json:"recommendation_reasons"`
}

// PurchaseInsightsDTO métricas del historial completo del cliente.
type PurchaseInsightsDTO struct {
	TotalPurchases           int                `json:"total_purchases"`
	TotalSpent               decimal.Decimal    `json:"total_spent"`
	AvgOrderValue            decimal.Decimal    `json:"avg_order_value"`
	DaysSinceLastVisit       *int               `json:"days_since_last_visit"`
	AvgPurchaseFrequencyDays *float64           `json:"avg_purchase_frequency_days"`
	TopProducts              []TopProductDTO    `json:"top_products"`
	FavoriteCategories       []CategoryCountDTO `json:"favorite_categories"`
}

// CustomerInsightsDTO respuesta de GET /api/customers/:id/insights.
type CustomerInsightsDTO struct {
	Customer        CustomerDTO         `json:"customer"`
	PurchaseHistory []SaleDTO           `json:"purchase_history"`
	Insights        PurchaseInsightsDTO `json:"insights"`
	Recommendations []ProductDTO        `json:"recommendations"`
}

// AllRecommendationsDTO respuesta de GET /api/recommendations.
type AllRecommendationsDTO struct {
	Customers []CustomerRecommendationsDTO `json:"customers"`
	Count     int                          `json:"count"`
}

// RecommendationErrorResponse error de los endpoints de recomendaciones, con lista vacía.
type RecommendationErrorResponse struct {
	ErrorResponse
	Recommendations []ProductDTO `json:"recommendations"`
}
