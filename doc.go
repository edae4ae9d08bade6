// Package cubeimage implements a cubemap/HDR image processing core: it
// loads, converts and stores environment-map images used to bake lighting
// (irradiance, pre-filtered radiance, ...), in the on-disk formats used by
// the graphics community: DDS, KTX, TGA and Radiance HDR.
//
// The engine is single-threaded and synchronous. Every exported function is
// a plain call with no background work, no cancellation and no shared
// mutable state; callers wanting parallelism partition work across
// independent [imgcore.Image] values themselves.
//
// Format conversion, lat-long layout conversion and resampling all route
// through a canonical linear RGBA32F representation so that intermediate
// precision is never lost; the cross, strip and face-list layout
// conversions copy pixels in their native format. The four codecs under codec/
// are the only components that touch a specific on-disk byte layout; the
// rest of the engine (format, colorconv, imgcore) is codec-agnostic.
package cubeimage
