// Package objectstore abstracts key/value blob storage for artifacts and
// the durable job document.
//
// The Store interface covers get/put/list/copy/delete plus public URL
// resolution. The filesystem adapter maps keys onto a root directory; other
// providers can be added behind the same interface.
package objectstore
