/*
Package generation is the HTTP client for the upstream image model.

Two endpoints are consumed:

  - the generation endpoint, which turns {prompt, style, imageBase64?,
    aspectRatio} into {success, imageBase64?, error?, generationTime?}
  - the chat endpoint, which applies a conversational edit to the current
    image and answers with an image, a text reply, or both

Requests go through resty on top of a hashicorp/go-retryablehttp transport,
a golang.org/x/time/rate limiter and a circuit breaker. Bodies are encoded
with bytedance/sonic.

A reply the endpoint itself reports as failed (including a non-2xx status
with a JSON body) comes back as a response with Success false. Transport
failures, an open breaker and undecodable bodies come back as errors.
*/
package generation
