package main

// Toast messages shown after form posts and favorite toggles.
var (
	FavoriteAdded   = "%s added to favorites!"
	FavoriteRemoved = "%s removed from favorites!"
	FavoriteLimit   = "You can only favorite up to %d projects!"
	FavoriteFailed  = "Sorry, your favorites could not be updated. Please try again."

	ContactMissing = "Please fill in every field!"
	ContactEmail   = "That email address doesn't look valid!"
	ContactSent    = "Thank you for your message! I'll get back to you soon."
	ContactFailed  = "Sorry, there was an error sending your message. Please try again later."

	EmptyFavorites = `You haven't favorited any projects yet.
	Visit the Projects page and tap the star on a project to pin it here!`
)
