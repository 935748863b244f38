package config

// DefaultBlogTopics seeds the blog task when the config file supplies none.
var DefaultBlogTopics = []string{
	"Top 10 Most Popular Dog Breeds in 2025",
	"Rare and Exotic Dog Breeds: What You Need to Know",
	"Hypoallergenic Dog Breeds for Allergy Sufferers",
	"Small Dog Breeds Perfect for Apartment Living",
	"Large Dog Breeds Suited for Families with Children",
	"How to Train Your Puppy: A Beginner's Guide",
	"Understanding Canine Body Language: What Your Dog Is Telling You",
	"The Benefits of Positive Reinforcement in Dog Training",
	"Crate Training: Making It a Positive Experience",
	"Dealing with Separation Anxiety in Dogs",
	"Common Health Issues in Dogs and How to Prevent Them",
	"The Importance of Regular Vet Check-Ups",
	"Nutrition Tips for a Healthy Dog Diet",
	"The Benefits of Regular Exercise for Dogs",
	"Raw Food Diets for Dogs: Pros and Cons",
	"Understanding Dog Food Labels: What to Look For",
	"Human Foods That Are Safe (and Unsafe) for Dogs",
	"DIY Dog Grooming: Tips and Tools for Home Grooming",
	"Dealing with Shedding: How to Manage Dog Hair",
	"Nail Trimming: Keeping Your Dog's Paws Healthy",
	"Traveling with Your Dog: Safety Tips and Regulations",
	"Pet Insurance: Is It Worth the Investment?",
	"Microchipping Your Dog: Benefits and Considerations",
	"Top Dog Toys of 2025: Keeping Your Pet Entertained",
	"Choosing the Right Dog Bed: A Buyer's Guide",
	"Dog Harnesses vs Collars: Which is Better?",
	"Tech Gadgets for Dogs: What's Worth Buying",
	"Eco-Friendly Dog Products: Sustainable Choices",
}

// DefaultShopCategories maps shop categories to their seed ASINs.
var DefaultShopCategories = map[string]string{
	"food":        "B08VB2QGN3",
	"toys":        "B08YRJF8D9",
	"accessories": "B09B125XPN",
	"grooming":    "B08HHML7VG",
	"health":      "B07WRBG9BV",
}
