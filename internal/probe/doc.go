// Package probe decodes image files and reports their format and
// dimensions. A file counts as readable only if it decodes completely:
// a valid header over truncated pixel data is still an error.
//
// Supported formats are those registered with the image package: JPEG,
// PNG, GIF, BMP and TIFF through imaging, plus WebP.
package probe
