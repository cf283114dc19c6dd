package httpserver

// User-facing messages. Clients match on these strings, so they are kept verbatim.
const (
	MsgSuccess      = "Амжилттай!"
	MsgSuccessPlain = "Success"
	MsgInternal     = "Уучлаарай, үйлдлийг гүйцэтгэхэд алдаа гарлаа."
	MsgInternalAlt  = "Уучлаарай, үйлдлийг хийхэд алдаа гарлаа."
	MsgServerError  = "Internal Server Error"
	MsgUnauthorized = "Unauthorized"
	MsgInvalidInput = "Invalid input"

	MsgUserNotFound      = "User does not exist"
	MsgProfileUpdated    = "Амжилттай шинэчлэгдсэн!"
	MsgProfileForbidden  = "You are not authorized to update this profile!"
	MsgProductNotFound   = "Product does not exist"
	MsgProductCreated    = "Байршуулалт амжилттай!"
	MsgProductUpdated    = "Амжилттай шинэчлэгдлээ!"
	MsgProductForbidden  = "You are not authorized to edit this product!"
	MsgProductDeleted    = "Амжилттай устгагдлаа!"
	MsgWishlistNoProduct = "Энэхүү бүтээгдэхүүн нь систэмд бүртгэлгүй байна."
	MsgWishlistRemoved   = "Хүслийн жагсаалтнаас амжилттай хасагдлаа!"
	MsgWishlistAdded     = "Хүслийн жагсаалтад амжилттай бүртгэгдлээ!"
	MsgWishlistFailed    = "Unable to add product to wishlist"
	MsgWishlistReadFail  = "Хүслийн жагсаалт руу хандаж чадсангүй!"
	MsgReviewNotFound    = "Review does not exist"
	MsgReviewDeleted     = "Амжилттай устгалаа!"
	MsgCartAdded         = "Сагсанд амжилттай нэмэгдлээ!"
	MsgCartItemNotFound  = "Product is not in the cart"
	MsgCartRemoved       = "Removed from cart"
	MsgCartEmpty         = "Cart is empty"
	MsgOrderCreated      = "Order created"
)
