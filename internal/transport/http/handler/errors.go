package handler

const (
	errUploadFailed   = "Upload failed. Please try again."
	errUploadTooLarge = "Selected images are larger than the upload limit."
	errNoImages       = "Please select some images first."
	errSkippedFiles   = "Some files were skipped. Only images are allowed."
	errBookNotFound   = "Book not found"
	errSessionExpired = "Your session has expired. Please sign in again."
	errBadForm        = "Could not read the submitted form."
)

const (
	msgLoggedOut    = "Logged out successfully. See you soon!"
	msgBookAdded    = "Book added to collection!"
	msgBookUpdated  = "Book updated successfully!"
	msgBookDeleted  = "Book deleted successfully."
	msgImagesUpload = "Images uploaded successfully!"
)
