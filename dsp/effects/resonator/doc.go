// Package resonator implements a crest-factor driven band resonator.
//
// Each channel runs an independent chain:
//
//	in -> band-pass -> crest factor -> threshold/gain curve -> envelope
//	   -> gain on the band -> dry/wet mix -> output volume
//
// The band-pass isolates a narrow region around the center frequency. The
// crest factor of that band is normalized, skewed and compared to a threshold
// derived from the Attack control; the excess is scaled to a dB value,
// clamped, smoothed by a fast-attack/slow-release envelope follower and
// converted to a linear gain applied to the band. The result is blended with
// the dry input and scaled by the output volume.
//
// The smoothed dB value is converted with a plain dB-to-linear conversion and
// multiplied in, without negation, so a peaky band is raised rather than
// lowered.
//
// Control values arrive once per block as a [Params] snapshot. A
// [Resonator] is real-time safe and not thread-safe; see package host for the
// concurrent parameter store that feeds it.
package resonator
