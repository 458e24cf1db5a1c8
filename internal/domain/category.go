package domain

// Category is the closed set of content categories a creator or set can
// declare. Values are persisted verbatim in the JSON containers, so they
// must never be renamed.
type Category string

// Possible content category values.
const (
	CategoryTechnologyGaming        Category = "technology_gaming"
	CategoryHealthFitness           Category = "health_fitness"
	CategoryFoodCooking             Category = "food_cooking"
	CategoryTravelLifestyle         Category = "travel_lifestyle"
	CategoryEducationScience        Category = "education_science"
	CategoryEntertainmentPopculture Category = "entertainment_popculture"
	CategoryBusinessFinance         Category = "business_finance"
	CategoryArtsCrafts              Category = "arts_crafts"
	CategoryParentingFamily         Category = "parenting_family"
	CategoryFashionBeauty           Category = "fashion_beauty"
	CategorySpaceExploration        Category = "space_exploration"
	CategoryWellness                Category = "wellness"
	CategoryNutrition               Category = "nutrition"
	CategoryEarthMysteries          Category = "earth_mysteries"
	CategoryGeneral                 Category = "general"
)

// AllCategories lists every valid category in declaration order.
func AllCategories() []Category {
	return []Category{
		CategoryTechnologyGaming,
		CategoryHealthFitness,
		CategoryFoodCooking,
		CategoryTravelLifestyle,
		CategoryEducationScience,
		CategoryEntertainmentPopculture,
		CategoryBusinessFinance,
		CategoryArtsCrafts,
		CategoryParentingFamily,
		CategoryFashionBeauty,
		CategorySpaceExploration,
		CategoryWellness,
		CategoryNutrition,
		CategoryEarthMysteries,
		CategoryGeneral,
	}
}

// IsValid reports whether c is one of the closed set of category variants.
func (c Category) IsValid() bool {
	switch c {
	case CategoryTechnologyGaming, CategoryHealthFitness, CategoryFoodCooking,
		CategoryTravelLifestyle, CategoryEducationScience, CategoryEntertainmentPopculture,
		CategoryBusinessFinance, CategoryArtsCrafts, CategoryParentingFamily,
		CategoryFashionBeauty, CategorySpaceExploration, CategoryWellness,
		CategoryNutrition, CategoryEarthMysteries, CategoryGeneral:
		return true
	}
	return false
}
