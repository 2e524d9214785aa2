package view

const StartMessage = `👋 <b>Gift wheel admin</b>

/status — состояние синхронизации
/sync — синхронизировать рынок сейчас
/startsync, /stopsync — планировщик
/collections — коллекции для синхронизации
/addcollection <code>ADDR</code> — добавить коллекцию
/removecollection <code>ADDR</code> — убрать коллекцию
/listings — самые дешёвые листинги
/minprice — минимальная ставка`

const StatusTemplate = `📊 <b>Статус системы</b>

🔄 <b>Синхронизация:</b> %s
📦 <b>Коллекции:</b> %s
🗂 <b>Листингов в индексе:</b> %d
🕒 <b>Последний проход:</b> %s`

const (
	SyncRunning = "🟢 работает"
	SyncStopped = "🔴 остановлена"

	SyncTriggered      = "🔄 Синхронизация запрошена"
	SyncAlreadyQueued  = "⏳ Синхронизация уже в очереди"
	SyncNotRunning     = "⚠️ Планировщик не запущен, /startsync"
	SyncStarted        = "✅ Планировщик запущен"
	SyncAlreadyStarted = "⚠️ Планировщик уже запущен"
	SyncStoppedMsg     = "🛑 Планировщик остановлен"

	CollectionsAll   = "все коллекции маркетплейса"
	CollectionsEmpty = "📋 <b>Список коллекций пуст</b>\n\nСинхронизируются все коллекции маркетплейса.\n\nДобавить: /addcollection <code>ADDR</code>"

	CollectionAddUsage    = "❌ Использование: /addcollection <code>ADDR</code>"
	CollectionRemoveUsage = "❌ Использование: /removecollection <code>ADDR</code>"
	CollectionExists      = "⚠️ <code>%s</code> уже в списке"
	CollectionAdded       = "✅ <code>%s</code> добавлена"
	CollectionMissing     = "⚠️ <code>%s</code> не найдена в списке"
	CollectionRemoved     = "✅ <code>%s</code> удалена"

	ListingsEmpty              = "📭 Индекс пуст"
	ListingsError              = "❌ Ошибка получения листингов"
	ListingsPaginationTemplate = "🏷 <b>Листинги</b> (Стр. %d/%d)\n\n"
	ListingItemTemplate        = "• %s — <b>%s TON</b>\n  <code>%s</code>\n"

	MinPriceTemplate = "💰 <b>Минимальная ставка</b>\n\nTON: <b>%s</b>\nStars: <b>%s</b>"
	MinPriceError    = "❌ Не удалось посчитать минимальную ставку"
)
