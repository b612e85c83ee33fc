package catalog

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"storefront-service/internal/models"
)

func price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func pricePtr(s string) *decimal.Decimal {
	d := price(s)
	return &d
}

func img(id string, w, h int) string {
	return "https://images.unsplash.com/photo-" + id + "?w=" + strconv.Itoa(w) + "&h=" + strconv.Itoa(h) + "&fit=crop"
}

var seedCategories = []models.Category{
	{
		ID: "1", Name: "Men", Slug: "men", Image: img("1516826435551-36a8a09e4526", 400, 300),
		Subcategories: []models.Subcategory{
			{ID: "1", Name: "T-Shirts", Slug: "t-shirts", Image: img("1521572163474-6864f9cf17ab", 200, 200)},
			{ID: "2", Name: "Jeans", Slug: "jeans", Image: img("1542272604-787c3835535d", 200, 200)},
			{ID: "3", Name: "Shirts", Slug: "shirts", Image: img("1596755094514-f87e34085b2c", 200, 200)},
			{ID: "4", Name: "Shoes", Slug: "shoes", Image: img("1549298916-b41d501d3772", 200, 200)},
		},
	},
	{
		ID: "2", Name: "Women", Slug: "women", Image: img("1594633312681-425c7b97ccd1", 400, 300),
		Subcategories: []models.Subcategory{
			{ID: "5", Name: "Dresses", Slug: "dresses", Image: img("1572804013309-59a88b7e92f1", 200, 200)},
			{ID: "6", Name: "Tops", Slug: "tops", Image: img("1564584217132-2271339c9b46", 200, 200)},
			{ID: "7", Name: "Jeans", Slug: "women-jeans", Image: img("1584370848010-d7fe6bc767ec", 200, 200)},
			{ID: "8", Name: "Kurtis", Slug: "kurtis", Image: img("1583391733956-3750e0ff4e8b", 200, 200)},
			{ID: "9", Name: "Ethnic Wear", Slug: "ethnic-wear", Image: img("1610030469983-98e550d6193c", 200, 200)},
		},
	},
	{
		ID: "3", Name: "Kids", Slug: "kids", Image: img("1503919545889-aef636e10ad4", 400, 300),
		Subcategories: []models.Subcategory{
			{ID: "10", Name: "Boys", Slug: "boys", Image: img("1519238263530-99bdd11df2ea", 200, 200)},
			{ID: "11", Name: "Girls", Slug: "girls", Image: img("1518831959646-742c3a14ebf7", 200, 200)},
			{ID: "12", Name: "Baby", Slug: "baby", Image: img("1515488042361-ee00e0ddd4e4", 200, 200)},
		},
	},
}

var seedBanners = []models.Banner{
	{
		ID: "1", Title: "Summer Sale", Subtitle: "Up to 70% off on trending fashion",
		Image: img("1441986300917-64674bd600d8", 1200, 500), Link: "/products?sale=true",
		ButtonText: "Shop Now", IsActive: true, Order: 1,
	},
	{
		ID: "2", Title: "New Arrivals", Subtitle: "Discover the latest fashion trends",
		Image: img("1445205170230-053b83016050", 1200, 500), Link: "/products?new=true",
		ButtonText: "Explore", IsActive: true, Order: 2,
	},
	{
		ID: "3", Title: "Ethnic Collection", Subtitle: "Traditional wear for special occasions",
		Image: img("1610030469983-98e550d6193c", 1200, 500), Link: "/products?category=ethnic-wear",
		ButtonText: "View Collection", IsActive: true, Order: 3,
	},
}

var seedProducts = []models.Product{
	{
		ID: "1", Name: "Classic Cotton T-Shirt",
		Description: "Premium quality cotton t-shirt with comfortable fit. Perfect for casual wear.",
		Price: price("29.99"), OriginalPrice: pricePtr("39.99"), Discount: 25,
		Category: "men", Subcategory: "t-shirts", Brand: "Urban Fit",
		Images: []string{img("1521572163474-6864f9cf17ab", 500, 600), img("1576995853123-5a10305d93c0", 500, 600)},
		Sizes:  []string{"S", "M", "L", "XL", "XXL"},
		Colors: []string{"Black", "White", "Navy", "Gray"},
		Rating: 4.5, ReviewCount: 128, InStock: true, IsTrending: true,
		Tags: []string{"casual", "cotton", "comfortable"},
	},
	{
		ID: "2", Name: "Graphic Print T-Shirt",
		Description: "Trendy graphic print t-shirt made from soft cotton blend.",
		Price: price("24.99"),
		Category: "men", Subcategory: "t-shirts", Brand: "Style Co",
		Images: []string{img("1583743814966-8936f37f4ec6", 500, 600), img("1571945153237-4929e783af4a", 500, 600)},
		Sizes:  []string{"S", "M", "L", "XL"},
		Colors: []string{"Black", "White", "Red"},
		Rating: 4.2, ReviewCount: 89, InStock: true, IsNew: true,
		Tags: []string{"graphic", "trendy", "casual"},
	},
	{
		ID: "3", Name: "Slim Fit Denim Jeans",
		Description: "Modern slim fit jeans with stretch fabric for comfort and style.",
		Price: price("79.99"), OriginalPrice: pricePtr("99.99"), Discount: 20,
		Category: "men", Subcategory: "jeans", Brand: "Denim Co",
		Images: []string{img("1542272604-787c3835535d", 500, 600), img("1506629905607-8582e5b4afca", 500, 600)},
		Sizes:  []string{"28", "30", "32", "34", "36", "38"},
		Colors: []string{"Dark Blue", "Light Blue", "Black"},
		Rating: 4.7, ReviewCount: 156, InStock: true, IsDeal: true,
		Tags: []string{"denim", "slim-fit", "stretch"},
	},
	{
		ID: "4", Name: "Floral Summer Dress",
		Description: "Beautiful floral print dress perfect for summer occasions.",
		Price: price("59.99"),
		Category: "women", Subcategory: "dresses", Brand: "Flora Fashion",
		Images: []string{img("1572804013309-59a88b7e92f1", 500, 600), img("1515372039744-b8f02a3ae446", 500, 600)},
		Sizes:  []string{"XS", "S", "M", "L", "XL"},
		Colors: []string{"Floral Blue", "Floral Pink", "Floral Yellow"},
		Rating: 4.8, ReviewCount: 203, InStock: true, IsTrending: true, IsNew: true,
		Tags: []string{"floral", "summer", "feminine"},
	},
	{
		ID: "5", Name: "Embroidered Kurti",
		Description: "Traditional embroidered kurti with intricate patterns and comfortable fit.",
		Price: price("45.99"), OriginalPrice: pricePtr("65.99"), Discount: 30,
		Category: "women", Subcategory: "kurtis", Brand: "Ethnic Elegance",
		Images: []string{img("1583391733956-3750e0ff4e8b", 500, 600), img("1610030469983-98e550d6193c", 500, 600)},
		Sizes:  []string{"S", "M", "L", "XL", "XXL"},
		Colors: []string{"Blue", "Pink", "Green", "Yellow"},
		Rating: 4.6, ReviewCount: 87, InStock: true, IsDeal: true,
		Tags: []string{"ethnic", "embroidered", "traditional"},
	},
	{
		ID: "6", Name: "Kids Cartoon T-Shirt",
		Description: "Fun cartoon print t-shirt for kids, made from soft cotton.",
		Price: price("19.99"),
		Category: "kids", Subcategory: "boys", Brand: "Little Style",
		Images: []string{img("1519238263530-99bdd11df2ea", 500, 600), img("1503919545889-aef636e10ad4", 500, 600)},
		Sizes:  []string{"2-3Y", "4-5Y", "6-7Y", "8-9Y", "10-11Y"},
		Colors: []string{"Blue", "Red", "Green", "Yellow"},
		Rating: 4.4, ReviewCount: 67, InStock: true, IsNew: true,
		Tags: []string{"kids", "cartoon", "fun"},
	},
	{
		ID: "7", Name: "Formal Shirt",
		Description: "Professional formal shirt for office and business meetings.",
		Price: price("49.99"),
		Category: "men", Subcategory: "shirts", Brand: "Business Pro",
		Images: []string{img("1596755094514-f87e34085b2c", 500, 600), img("1594938298603-c8148c4dae35", 500, 600)},
		Sizes:  []string{"S", "M", "L", "XL", "XXL"},
		Colors: []string{"White", "Light Blue", "Light Pink"},
		Rating: 4.3, ReviewCount: 145, InStock: true,
		Tags: []string{"formal", "business", "professional"},
	},
	{
		ID: "8", Name: "Casual Sneakers",
		Description: "Comfortable casual sneakers for everyday wear.",
		Price: price("89.99"), OriginalPrice: pricePtr("119.99"), Discount: 25,
		Category: "men", Subcategory: "shoes", Brand: "Walk Comfort",
		Images: []string{img("1549298916-b41d501d3772", 500, 600), img("1560472354-b33ff0c44a43", 500, 600)},
		Sizes:  []string{"7", "8", "9", "10", "11", "12"},
		Colors: []string{"White", "Black", "Gray", "Navy"},
		Rating: 4.6, ReviewCount: 234, InStock: true, IsTrending: true,
		Tags: []string{"sneakers", "comfortable", "casual"},
	},
	{
		ID: "9", Name: "Stylish Top",
		Description: "Trendy top with modern design, perfect for casual outings.",
		Price: price("34.99"),
		Category: "women", Subcategory: "tops", Brand: "Fashion Forward",
		Images: []string{img("1564584217132-2271339c9b46", 500, 600), img("1551803091-e20673f15770", 500, 600)},
		Sizes:  []string{"XS", "S", "M", "L", "XL"},
		Colors: []string{"Black", "White", "Red", "Blue"},
		Rating: 4.4, ReviewCount: 98, InStock: true, IsNew: true,
		Tags: []string{"stylish", "trendy", "casual"},
	},
	{
		ID: "10", Name: "Lehengas Choli",
		Description: "Traditional lehenga choli set for special occasions and festivals.",
		Price: price("149.99"), OriginalPrice: pricePtr("199.99"), Discount: 25,
		Category: "women", Subcategory: "ethnic-wear", Brand: "Royal Ethnic",
		Images: []string{img("1610030469983-98e550d6193c", 500, 600), img("1609251679014-4e0fda6d9d87", 500, 600)},
		Sizes:  []string{"S", "M", "L", "XL"},
		Colors: []string{"Red", "Blue", "Pink", "Green"},
		Rating: 4.9, ReviewCount: 167, InStock: true, IsTrending: true, IsDeal: true,
		Tags: []string{"ethnic", "traditional", "festive"},
	},
}

var seedReviews = []models.Review{
	{
		ID: "1", ProductID: "1", UserID: "user1", UserName: "John Smith", Rating: 5,
		Comment: "Excellent quality t-shirt! Very comfortable and fits perfectly.",
		Date: "2024-01-15", Helpful: 23,
	},
	{
		ID: "2", ProductID: "1", UserID: "user2", UserName: "Sarah Johnson", Rating: 4,
		Comment: "Good quality but runs a bit small. Order one size up.",
		Date: "2024-01-10", Helpful: 18,
	},
	{
		ID: "3", ProductID: "4", UserID: "user3", UserName: "Emily Davis", Rating: 5,
		Comment: "Beautiful dress! The floral print is gorgeous and the fabric is lightweight.",
		Date: "2024-01-12", Helpful: 31,
	},
}

func seedDeals(products []models.Product) []models.Deal {
	return []models.Deal{
		{
			ID: "1", Title: "Flash Sale", Description: "Limited time offer on selected items",
			Image: img("1607083206869-4c7672e72a8a", 400, 300), Discount: 50,
			ValidUntil: time.Date(2024, 12, 31, 23, 59, 59, 0, time.UTC),
			Products: firstN(products, 6, func(p *models.Product) bool { return p.IsDeal }),
		},
		{
			ID: "2", Title: "New Arrival Sale", Description: "Get 30% off on all new arrivals",
			Image: img("1445205170230-053b83016050", 400, 300), Discount: 30,
			ValidUntil: time.Date(2024, 12, 25, 23, 59, 59, 0, time.UTC),
			Products: firstN(products, 4, func(p *models.Product) bool { return p.IsNew }),
		},
	}
}
