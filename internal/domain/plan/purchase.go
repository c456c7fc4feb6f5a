package plan

import (
	"strconv"

	"github.com/Strob0t/Concierge/internal/domain/intent"
)

const (
	capEcommerce      = "ecommerce"
	capDelivery       = "premium_delivery"
	capRecommendation = "recommendation_engine"
)

func purchase(p *intent.Purchase, avail Availability, a Archetype) *Candidate {
	if !avail.IsAvailable(capEcommerce) {
		return nil
	}

	params := map[string]string{
		"item_description": p.ItemDescription,
		"quantity":         strconv.Itoa(p.Quantity),
	}

	switch a {
	case ArchetypeEfficiency:
		if p.MaxPrice != nil {
			params["max_price"] = strconv.FormatFloat(*p.MaxPrice, 'f', -1, 64)
		}
		return &Candidate{
			Archetype:         ArchetypeEfficiency,
			Description:       "Direct purchase from the most cost-effective vendor",
			EstimatedCost:     scaled(p.MaxPrice, 1.0),
			EstimatedDuration: "PT2H",
			Steps: []Step{{
				Action:     "purchase_item",
				Capability: capEcommerce,
				Params:     params,
				Priority:   intent.PriorityHigh,
			}},
			Confidence: 0.85,
		}

	case ArchetypeLuxury:
		if p.MaxPrice != nil {
			params["max_price"] = strconv.FormatFloat(*p.MaxPrice*1.5, 'f', -1, 64)
		}
		params["vendor_tier"] = "premium"
		return &Candidate{
			Archetype:   ArchetypeLuxury,
			Description: "Premium purchase with express delivery and gift wrapping",
			// Premium item (x1.5) plus express delivery brings the total to x1.7.
			EstimatedCost:     scaled(p.MaxPrice, 1.7),
			EstimatedDuration: "PT1H",
			Steps: []Step{
				{
					Action:     "purchase_item",
					Capability: capEcommerce,
					Params:     params,
					Priority:   intent.PriorityHigh,
				},
				{
					Action:     "arrange_premium_delivery",
					Capability: capDelivery,
					Params: map[string]string{
						"item_id":       "{{item_id}}", // resolved by the executor after purchase
						"delivery_type": "express_premium",
					},
					Priority: intent.PriorityHigh,
				},
			},
			Confidence: 0.80,
		}

	case ArchetypeDiscovery:
		if p.MaxPrice != nil {
			params["max_price"] = strconv.FormatFloat(*p.MaxPrice, 'f', -1, 64)
		}
		return &Candidate{
			Archetype:         ArchetypeDiscovery,
			Description:       "Purchase with discovery of similar or complementary items",
			EstimatedCost:     scaled(p.MaxPrice, 1.0),
			EstimatedDuration: "PT24H",
			Steps: []Step{
				{
					Action:     "purchase_item",
					Capability: capEcommerce,
					Params:     params,
					Priority:   intent.PriorityHigh,
				},
				{
					Action:     "discover_similar_items",
					Capability: capRecommendation,
					Params: map[string]string{
						"item_category": p.ItemDescription,
						"mode":          "exploration",
					},
					Priority: intent.PriorityMedium,
				},
			},
			Confidence: 0.75,
		}
	}
	return nil
}
