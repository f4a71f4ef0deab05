// Package mmfile provides the memory regions handed to the allocator: anonymous
// mappings and file-backed mappings, with a heap-backed fallback on platforms
// without mmap.
package mmfile
