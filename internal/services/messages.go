package services

// Messages carried by non-success results.
const (
	MsgProductNotFound      = "Product not found"
	MsgCategoryNotFound     = "Category not found"
	MsgCartNotFound         = "Cart not found"
	MsgCartItemNotFound     = "Cart item not found"
	MsgEmptyCart            = "Cart is empty"
	MsgProductUnavailable   = "Product is no longer available"
	MsgOrderNotFound        = "Order not found"
	MsgAccessDenied         = "Access denied"
	MsgOnlyPendingCancelled = "Only pending orders can be cancelled"
	MsgOnlyPendingConfirmed = "Only pending orders can be confirmed"
	MsgItemRemoved          = "Item removed from cart"
	MsgCartCleared          = "Cart cleared"
	MsgProductNameTaken     = "A product with this name already exists"
	MsgCategoryNameTaken    = "A category with this name already exists"
	MsgCategoryHasProducts  = "Category still has products"
	MsgUsernameTaken        = "Username already taken"
	MsgInvalidCredentials   = "Invalid credentials"
	MsgReviewNotFound       = "Review not found"
	MsgAlreadyReviewed      = "You have already reviewed this product"
	MsgMustPurchaseToReview = "Only customers who purchased this product can review it"
	MsgProfanityDetected    = "Your review contains inappropriate language"
)
