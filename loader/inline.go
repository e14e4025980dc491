package loader

import "strings"

// writeInlineDecoder emits the small JS routine that turns the embedded
// W64 or RLE85 text (written elsewhere into opts.InlineModule by the
// assemble package's embed codecs) back into a byte array, per spec.md
// §4.F step 5. The decoder only understands how to invert the encoding;
// the actual encoded text is spliced in by writeInstantiation.
func writeInlineDecoder(b *strings.Builder, enc InlineEncoding) {
	switch enc {
	case EncodingW64:
		b.WriteString(`function decodeW64(s) {
  var alphabet = [];
  for (var c = 58; c < 92; c++) alphabet.push(c);
  for (var c = 93; c <= 122; c++) alphabet.push(c);
  var rev = {};
  for (var i = 0; i < alphabet.length; i++) rev[alphabet[i]] = i;
  var pad = s.charCodeAt(s.length - 1) - 48; // trailing '0'/'1'/'2' digit
  var body = s.substring(0, s.length - 1);
  var out = new Uint8Array(Math.floor(body.length / 4) * 3);
  var o = 0;
  for (var i = 0; i < body.length; i += 4) {
    var v = 0;
    for (var j = 0; j < 4; j++) v = v * 64 + rev[body.charCodeAt(i + j)];
    out[o++] = (v >>> 16) & 0xFF;
    out[o++] = (v >>> 8) & 0xFF;
    out[o++] = v & 0xFF;
  }
  return pad > 0 ? out.subarray(0, out.length - pad) : out;
}
`)
	case EncodingRLE85:
		b.WriteString(`function decodeRLE85(s) {
  var alphabet = [];
  for (var c = 41; c < 92; c++) alphabet.push(c);
  for (var c = 93; c <= 126; c++) alphabet.push(c);
  var rev = {};
  for (var i = 0; i < alphabet.length; i++) rev[alphabet[i]] = i;
  var bytes = [];
  for (var i = 0; i < s.length; i += 5) {
    var groupLen = Math.min(5, s.length - i);
    var v = 0;
    for (var j = 0; j < groupLen; j++) v = v * 85 + rev[s.charCodeAt(i + j)];
    for (var j = groupLen; j < 5; j++) v = v * 85 + 84;
    var b4 = [(v >>> 24) & 0xFF, (v >>> 16) & 0xFF, (v >>> 8) & 0xFF, v & 0xFF];
    for (var j = 0; j < groupLen - 1; j++) bytes.push(b4[j]);
  }
  var total = ((bytes[0] << 24) | (bytes[1] << 16) | (bytes[2] << 8) | bytes[3]) >>> 0;
  var rle = bytes.slice(4);
  var out = new Uint8Array(total);
  var o = 0, p = 0;
  while (o < total) {
    var tag = rle[p++];
    for (var bit = 0; bit < 8 && o < total; bit++) {
      if (tag & (1 << bit)) {
        var b0 = rle[p++], b1 = rle[p++];
        var dist = ((b0 & 0x0F) << 8) | b1;
        var lenNib = b0 >>> 4;
        var len = lenNib === 0x0F ? (rle[p++] + 18) : (lenNib + 3);
        for (var k = 0; k < len; k++) { out[o] = out[o - dist - 1]; o++; }
      } else {
        out[o++] = rle[p++];
      }
    }
  }
  return out;
}
`)
	}
}
