package extractor

// demoHTML is the built-in demo dataset: a snapshot-shaped review page used
// when no real source is supplied.
const demoHTML = `<!DOCTYPE html>
<html>
<head><title>Riverside Bistro - Visitor Reviews</title></head>
<body>
<div id="reviews">
  <div class="review">The food was absolutely wonderful, the grilled salmon melted in my mouth and the staff were friendly the whole evening.</div>
  <div class="review">Waited over forty minutes for a table we had reserved, and then another half hour for cold starters. Very disappointing visit.</div>
  <div class="review">Lovely terrace with a view of the river. Prices are fair for the quality you get. We will definitely come back next summer.</div>
  <div class="review">The soup arrived lukewarm and my coffee was forgotten twice. The waiter apologized but the kitchen seemed completely overwhelmed.</div>
  <div class="review">Great atmosphere for a family dinner. The kids menu is generous and the dessert selection is outstanding.</div>
  <div class="review">Average experience overall. Nothing was wrong exactly, but nothing stood out either. Probably would not rush back.</div>
  <div class="review">Best pasta I have had outside of Italy. The chef clearly cares about fresh ingredients and it shows in every dish.</div>
  <div class="review">Music was far too loud and the tables are crammed together. Hard to have a conversation without shouting.</div>
  <div class="review">Service was quick at lunch and the daily specials are good value. A reliable spot near the office.</div>
  <div class="review">They got our order wrong twice and the manager never came to the table despite promising to. Will not return.</div>
  <div class="review">Decent portions and a solid wine list. The room could use some refurbishment but the food makes up for it.</div>
  <div class="review">A hidden gem. The seasonal tasting menu was creative and the sommelier's pairings were spot on all night.</div>
</div>
</body>
</html>`
